package models

import "time"

// Task is a single todo item. OwnerID is set at creation and never changes;
// CreatedAt is the ordering key for listings.
type Task struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Content   string    `gorm:"type:varchar(200);not null" json:"content"`
	OwnerID   uint64    `gorm:"not null;index" json:"owner_id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	// Relations
	Owner User `gorm:"foreignKey:OwnerID" json:"-"`
}
