package server

import (
	"log"
	"strings"

	"zaiko-backend/internal/auth"
	"zaiko-backend/internal/config"
	"zaiko-backend/internal/stocks"
	"zaiko-backend/internal/storehouses"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// New assembles the fiber app and the full route table. Kept out of main so
// the request tests can build the same app.
func New(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"message": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "internal server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(corsOrigins, ","),
		AllowHeaders:     "Origin, Content-Type, Accept, X-CSRF-Token",
		AllowMethods:     "GET,POST,PATCH,DELETE,OPTIONS",
		ExposeHeaders:    auth.CSRFResponseHeader,
		AllowCredentials: true,
	}))

	api := app.Group("/api/v1")

	// Login is the only route outside the gate: it is how a session and its
	// anti-forgery token are first obtained.
	api.Post("/login", auth.LoginHandler(cfg))

	protected := api.Group("")
	protected.Use(auth.RequireLogin(cfg))
	protected.Use(auth.VerifyCSRF())

	protected.Get("/logged_in", auth.LoggedInHandler())
	protected.Delete("/logout", auth.LogoutHandler())

	protected.Get("/stocks", stocks.IndexHandler())
	protected.Get("/stocks/:id", stocks.ShowHandler())
	protected.Post("/stocks", stocks.CreateHandler())
	protected.Patch("/stocks/:id", stocks.UpdateHandler())
	protected.Delete("/stocks/:id", stocks.DestroyHandler())

	protected.Get("/storehouses", storehouses.IndexHandler())

	return app
}
