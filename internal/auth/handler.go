package auth

import (
	"time"

	"zaiko-backend/internal/config"
	"zaiko-backend/internal/database"
	"zaiko-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

const invalidCredentialsMessage = "ユーザ名またはパスワードに誤りがあります。"

// POST /api/v1/login
func LoginHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		// Unknown name and wrong password answer identically, the caller
		// cannot probe which one it was.
		var user models.User
		if err := database.DB.Where("name = ?", body.Name).First(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, invalidCredentialsMessage)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, invalidCredentialsMessage)
		}

		session, err := NewSession(user.ID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "session could not be created")
		}
		token, err := SignSessionToken(cfg.SessionSecret, session)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "session token could not be signed")
		}

		c.Cookie(&fiber.Cookie{
			Name:     CookieName,
			Value:    token,
			Expires:  session.ExpiresAt,
			HTTPOnly: true,
			SameSite: "Lax",
		})
		c.Set(CSRFResponseHeader, CSRFToken(session))

		return c.JSON(fiber.Map{"message": "login succeed"})
	}
}

// DELETE /api/v1/logout
func LogoutHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if session := CurrentSession(c); session != nil {
			if err := RevokeSession(session); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "session could not be revoked")
			}
		}

		c.Cookie(&fiber.Cookie{
			Name:     CookieName,
			Value:    "",
			Expires:  time.Now().Add(-time.Hour),
			HTTPOnly: true,
			SameSite: "Lax",
		})

		return c.JSON(fiber.Map{"message": "logout succeed"})
	}
}

// GET /api/v1/logged_in
func LoggedInHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		session := CurrentSession(c)

		c.Set(CSRFResponseHeader, CSRFToken(session))

		return c.JSON(fiber.Map{"message": "logged in", "userId": user.ID})
	}
}
