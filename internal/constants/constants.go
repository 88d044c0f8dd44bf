package constants

// SessionCookieName is the cookie that carries the opaque session token.
const SessionCookieName = "task_session"

// ContextKeyUserID is the key under which the authenticated user ID is
// stored, both in the server-side session and in the gin request context.
const ContextKeyUserID = "user_id"

// MinPasswordLength is the minimum accepted password length at registration
// and password change.
const MinPasswordLength = 8

// MaxTaskContentLength bounds the display text of a task.
const MaxTaskContentLength = 200
