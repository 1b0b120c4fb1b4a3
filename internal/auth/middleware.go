package auth

import (
	"time"

	"zaiko-backend/internal/config"
	"zaiko-backend/internal/database"
	"zaiko-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

const (
	CtxSessionKey = "session"
	CtxUserKey    = "current_user"
)

// RequireLogin rejects any request without a live session. On success the
// session and its user are stored in the request locals for the handlers.
func RequireLogin(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := c.Cookies(CookieName)
		if tokenStr == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
		}

		claims, err := ParseSessionToken(cfg.SessionSecret, tokenStr)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
		}

		var session models.Session
		if err := database.DB.First(&session, "id = ?", claims.SessionID).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
		}
		if session.Revoked || time.Now().After(session.ExpiresAt) {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
		}
		// The signed token and the server-side row must agree.
		if session.UserID != claims.UserID {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
		}

		// A user removed after login leaves the session without a current
		// user, which the gate treats the same as not being logged in.
		var user models.User
		if err := database.DB.First(&user, "id = ?", session.UserID).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
		}

		c.Locals(CtxSessionKey, &session)
		c.Locals(CtxUserKey, &user)

		return c.Next()
	}
}

// VerifyCSRF aborts mutating requests whose anti-forgery token is absent or
// does not match the session's. Runs after RequireLogin.
func VerifyCSRF() fiber.Handler {
	return func(c *fiber.Ctx) error {
		switch c.Method() {
		case fiber.MethodPost, fiber.MethodPatch, fiber.MethodPut, fiber.MethodDelete:
		default:
			return c.Next()
		}

		session := CurrentSession(c)
		if session == nil || !VerifyCSRFToken(session, c.Get(CSRFRequestHeader)) {
			return fiber.NewError(fiber.StatusForbidden, "invalid csrf token")
		}

		return c.Next()
	}
}

func CurrentSession(c *fiber.Ctx) *models.Session {
	s, _ := c.Locals(CtxSessionKey).(*models.Session)
	return s
}

func CurrentUser(c *fiber.Ctx) *models.User {
	u, _ := c.Locals(CtxUserKey).(*models.User)
	return u
}
