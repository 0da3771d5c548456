package auth

import (
	"github.com/gofiber/fiber/v2"
)

const (
	// SessionCookieName is the cookie that carries the session ID.
	SessionCookieName = "session_id"
	// UserIDLocalKey is the key used to store the authenticated user ID in Fiber's context locals.
	UserIDLocalKey = "user_id"
)

// UserIDFromCtx returns the current user ID set by RequireSession. 0 if not set.
func UserIDFromCtx(c *fiber.Ctx) int64 {
	v := c.Locals(UserIDLocalKey)
	if v == nil {
		return 0
	}
	id, ok := v.(int64)
	if !ok {
		return 0
	}
	return id
}

// RequireSession returns a middleware that checks for a valid session cookie
// and stores the current user ID in context locals. Missing or unknown
// sessions are rejected with 401 through the global error handler.
func RequireSession(sessions SessionStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Cookies(SessionCookieName)
		if sessionID == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "authorization required")
		}
		userID, ok := sessions.GetUserID(c.UserContext(), sessionID)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "authorization required")
		}
		c.Locals(UserIDLocalKey, userID)
		return c.Next()
	}
}
