package handlers

import (
	"msp/internal/app"
	"msp/internal/services"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
)

type ProgressHandler struct {
	Handler
	progress services.ProgressStore
}

func NewProgressHandler(app app.App, router fiber.Router) *ProgressHandler {
	log := logger.New("handlers").File("progress_handler")
	return &ProgressHandler{
		progress: app.Progress,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *ProgressHandler) Register() {
	progress := h.router.Group("/progress")

	progress.Post("/init", h.initialize)
	progress.Get("/", h.get)
	progress.Post("/complete", h.complete)
}

type progressInitRequest struct {
	SessionID  string `json:"sessionId"`
	TotalFiles *int   `json:"totalFiles"`
}

func (h *ProgressHandler) initialize(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("initialize")

	var req progressInitRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	if req.SessionID == "" || req.TotalFiles == nil {
		return fail(c, fiber.StatusBadRequest, "sessionId and totalFiles are required")
	}

	h.progress.Initialize(req.SessionID, *req.TotalFiles)
	log.Info("progress tracking initialized", "sessionID", req.SessionID, "totalFiles", *req.TotalFiles)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Progress tracking initialized",
	})
}

func (h *ProgressHandler) get(c *fiber.Ctx) error {
	sessionID := c.Query("sessionId")
	if sessionID == "" {
		return fail(c, fiber.StatusBadRequest, "sessionId is required")
	}

	record, ok := h.progress.Get(sessionID)
	if !ok {
		return fail(c, fiber.StatusNotFound, "No progress found for this session")
	}

	return c.JSON(record)
}

type progressCompleteRequest struct {
	SessionID string `json:"sessionId"`
}

func (h *ProgressHandler) complete(c *fiber.Ctx) error {
	var req progressCompleteRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	if req.SessionID == "" {
		return fail(c, fiber.StatusBadRequest, "sessionId is required")
	}

	h.progress.Complete(req.SessionID)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Progress marked as completed",
	})
}
