package handlers

import (
	"msp/internal/app"
	"msp/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func Router(router fiber.Router, app *app.App) error {
	api := router.Group("/api")
	api.Use(app.Middleware.TraceID())

	HealthHandler(api, app.Config)
	NewUploadHandler(*app, api).Register()
	NewProgressHandler(*app, api).Register()
	NewLoanHandler(*app, api).Register()
	NewContactHandler(*app, api).Register()
	NewEMIHandler(*app, api).Register()

	return nil
}

// fail is the uniform error payload shape: every caught error becomes a
// structured {success:false, message} response.
func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}
