package models

import "time"

// User is an account record. PasswordHash is a bcrypt digest and is never
// serialized. Account deletion hard-deletes the row together with all owned
// tasks, so there is no soft-delete column here.
type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Username     string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Tasks []Task `gorm:"foreignKey:OwnerID" json:"-"`
}
