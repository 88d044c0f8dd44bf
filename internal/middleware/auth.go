package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/mtakeda/tasklist-api/internal/constants"
	apierrors "github.com/mtakeda/tasklist-api/internal/errors"
)

// Principal is any identity a request can act as. The session-backed
// implementation below is the only one in the server; tests may supply
// their own.
type Principal interface {
	UserID() uint64
	IsAuthenticated() bool
}

type sessionPrincipal struct {
	id uint64
	ok bool
}

func (p sessionPrincipal) UserID() uint64        { return p.id }
func (p sessionPrincipal) IsAuthenticated() bool { return p.ok }

// Anonymous is the principal of a request with no valid session.
var Anonymous Principal = sessionPrincipal{}

// RequireAuth resolves the session token to a user identity and rejects the
// request before any handler runs when no identity is attached.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get(constants.ContextKeyUserID)

		if userID == nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		// Store user ID in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

// CurrentPrincipal returns the request's principal; Anonymous when the
// request carries no authenticated identity.
func CurrentPrincipal(c *gin.Context) Principal {
	id, ok := GetUserID(c)
	if !ok {
		return Anonymous
	}
	return sessionPrincipal{id: id, ok: true}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
