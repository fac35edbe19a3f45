package handlers

import (
	"errors"
	"io"

	"msp/internal/app"
	"msp/internal/services"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
)

type UploadHandler struct {
	Handler
	storage services.StorageService
}

func NewUploadHandler(app app.App, router fiber.Router) *UploadHandler {
	log := logger.New("handlers").File("upload_handler")
	return &UploadHandler{
		storage: app.Storage,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *UploadHandler) Register() {
	h.router.Post("/upload", h.upload)
}

// upload stages a single file in the drive root. The submit flow later moves
// it into the application's folder tree.
func (h *UploadHandler) upload(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("upload")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "file is required")
	}

	fileName := c.FormValue("fileName")
	docType := c.FormValue("docType")
	if fileName == "" || docType == "" {
		return fail(c, fiber.StatusBadRequest, "fileName and docType are required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Er("failed to open uploaded file", err, "fileName", fileName)
		return fail(c, fiber.StatusInternalServerError, "Failed to read file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		log.Er("failed to read uploaded file", err, "fileName", fileName)
		return fail(c, fiber.StatusInternalServerError, "Failed to read file")
	}

	mimeType := fileHeader.Header.Get("Content-Type")

	stored, err := h.storage.UploadDirect(c.UserContext(), data, mimeType, fileName, "")
	if err != nil {
		if errors.Is(err, services.ErrNotConfigured) {
			log.Er("storage is not configured", err)
			return fail(c, fiber.StatusInternalServerError, "Storage is not configured")
		}
		log.Er("failed to upload file", err, "fileName", fileName)
		return fail(c, fiber.StatusInternalServerError, "Failed to upload file")
	}

	log.Info("file staged", "fileName", fileName, "fileID", stored.ID, "docType", docType)

	return c.JSON(fiber.Map{
		"success":     true,
		"fileId":      stored.ID,
		"webViewLink": stored.WebViewLink,
	})
}
