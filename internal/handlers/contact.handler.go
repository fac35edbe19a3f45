package handlers

import (
	"msp/internal/app"
	"msp/internal/models"
	"msp/internal/services"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
)

type ContactHandler struct {
	Handler
	contactService *services.ContactService
}

func NewContactHandler(app app.App, router fiber.Router) *ContactHandler {
	log := logger.New("handlers").File("contact_handler")
	return &ContactHandler{
		contactService: app.ContactService,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *ContactHandler) Register() {
	contact := h.router.Group("/contact")

	contact.Post("/submit", h.submit)
}

func (h *ContactHandler) submit(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("submit")

	var lead models.Lead
	if err := c.BodyParser(&lead); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if lead.Name == "" || lead.Phone == "" {
		return fail(c, fiber.StatusBadRequest, "Name and phone are required")
	}

	submissionID, err := h.contactService.Submit(c.UserContext(), &lead)
	if err != nil {
		log.Er("failed to submit inquiry", err)
		return fail(c, fiber.StatusInternalServerError, "Failed to submit inquiry")
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"message":      "Inquiry submitted successfully",
		"submissionId": submissionID,
	})
}
