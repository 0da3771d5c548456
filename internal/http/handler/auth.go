package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"coursedeck/internal/auth"
	"coursedeck/internal/service"
)

// credentialsRequest is the JSON body for signup and login.
type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func setSessionCookie(c *fiber.Ctx, sessionID string, ttl time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     auth.SessionCookieName,
		Value:    sessionID,
		Expires:  time.Now().Add(ttl),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// Signup returns a handler for POST /auth/signup. A fresh session is started
// for the new user so the client is logged in immediately.
func Signup(users service.UserService, sessions auth.SessionStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req credentialsRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		u, err := users.Register(c.UserContext(), req.Username, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrUsernameTaken):
				return writeError(c, fiber.StatusConflict, "USERNAME_TAKEN", "username already taken")
			case errors.Is(err, service.ErrInvalidCredentials):
				return writeError(c, fiber.StatusBadRequest, "INVALID_CREDENTIALS", "username and password are required")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}

		sessionID, err := sessions.Create(c.UserContext(), u.ID)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		setSessionCookie(c, sessionID, 24*time.Hour)
		return c.Status(fiber.StatusCreated).JSON(u)
	}
}

// Login returns a handler for POST /auth/login.
func Login(users service.UserService, sessions auth.SessionStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req credentialsRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		u, err := users.ValidateCredentials(c.UserContext(), req.Username, req.Password)
		if err != nil {
			if errors.Is(err, service.ErrInvalidCredentials) {
				return writeError(c, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid username or password")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		sessionID, err := sessions.Create(c.UserContext(), u.ID)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		setSessionCookie(c, sessionID, 24*time.Hour)
		return c.JSON(u)
	}
}

// Logout returns a handler for POST /auth/logout. Deleting an unknown session
// is not an error.
func Logout(sessions auth.SessionStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Cookies(auth.SessionCookieName)
		if sessionID != "" {
			if err := sessions.Delete(c.UserContext(), sessionID); err != nil {
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		c.Cookie(&fiber.Cookie{
			Name:     auth.SessionCookieName,
			Value:    "",
			Expires:  time.Now().Add(-time.Hour),
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
		return c.SendStatus(fiber.StatusNoContent)
	}
}
