package handlers

import (
	"msp/internal/app"
	"msp/internal/services"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
)

type EMIHandler struct {
	Handler
	emiService *services.EMIService
}

func NewEMIHandler(app app.App, router fiber.Router) *EMIHandler {
	log := logger.New("handlers").File("emi_handler")
	return &EMIHandler{
		emiService: app.EMIService,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *EMIHandler) Register() {
	emi := h.router.Group("/emi")

	emi.Post("/calculate", h.calculate)
}

func (h *EMIHandler) calculate(c *fiber.Ctx) error {
	var req services.EMIRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	result, err := h.emiService.Calculate(req)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(fiber.Map{
		"success": true,
		"result":  result,
	})
}
