package handlers

import (
	"encoding/json"
	"errors"
	"io"

	"msp/internal/app"
	"msp/internal/models"
	"msp/internal/services"
	"msp/internal/types"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
)

type LoanHandler struct {
	Handler
	loanService *services.LoanService
	storage     services.StorageService
	progress    services.ProgressStore
}

func NewLoanHandler(app app.App, router fiber.Router) *LoanHandler {
	log := logger.New("handlers").File("loan_handler")
	return &LoanHandler{
		loanService: app.LoanService,
		storage:     app.Storage,
		progress:    app.Progress,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *LoanHandler) Register() {
	loan := h.router.Group("/loan")

	loan.Post("/create-folders", h.createFolders)
	loan.Post("/upload-files", h.uploadFile)
	loan.Post("/submit", h.submit)
}

// parseApplication assembles a LoanApplication from the multipart form the
// client posts: flat identity fields plus JSON-encoded file-metadata maps.
func parseApplication(c *fiber.Ctx) (*models.LoanApplication, error) {
	app := &models.LoanApplication{
		SessionID: c.FormValue("sessionId"),
		Applicant: models.Applicant{
			Name:       c.FormValue("name"),
			Email:      c.FormValue("email"),
			Phone:      c.FormValue("phone"),
			Location:   c.FormValue("location"),
			LoanAmount: c.FormValue("loanAmount"),
			LoanType:   c.FormValue("loanType"),
			Message:    c.FormValue("message"),
		},
		ApplicantFiles:   models.FileIndex{},
		CoApplicantFiles: models.FileIndex{},
	}

	if app.Applicant.Name == "" {
		return nil, errors.New("applicant name is required")
	}

	if coName := c.FormValue("coName"); coName != "" {
		app.CoApplicant = &models.CoApplicant{
			Name:          coName,
			Email:         c.FormValue("coEmail"),
			Phone:         c.FormValue("coPhone"),
			Location:      c.FormValue("coLocation"),
			MonthlyIncome: c.FormValue("coIncome"),
		}
	}

	if raw := c.FormValue("applicantFileMetadata"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &app.ApplicantFiles); err != nil {
			return nil, errors.New("invalid applicant file metadata")
		}
	}
	if raw := c.FormValue("coApplicantFileMetadata"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &app.CoApplicantFiles); err != nil {
			return nil, errors.New("invalid co-applicant file metadata")
		}
	}

	return app, nil
}

func (h *LoanHandler) createFolders(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("createFolders")

	application, err := parseApplication(c)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	applicationNumber, structure, err := h.loanService.CreateFolders(c.UserContext(), application)
	if err != nil {
		if errors.Is(err, services.ErrNotConfigured) {
			log.Er("storage is not configured", err)
			return fail(c, fiber.StatusInternalServerError, "Storage is not configured")
		}
		log.Er("failed to create folders", err)
		return fail(c, fiber.StatusInternalServerError, "Failed to create folders")
	}

	log.Info("folders created", "applicationNumber", applicationNumber)

	return c.JSON(fiber.Map{
		"success":           true,
		"message":           "Folders created successfully",
		"applicationNumber": applicationNumber,
		"folderStructure":   structure,
	})
}

// uploadFile places one file into a previously created folder, either from
// an inline multipart part or from a staged blob URL, and feeds the progress
// store keyed by the client's session.
func (h *LoanHandler) uploadFile(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("uploadFile")

	fileName := c.FormValue("fileName")
	folderID := c.FormValue("folderId")
	sessionID := c.FormValue("sessionId")
	uploadType := c.FormValue("uploadType")
	isCoApplicant := c.FormValue("isCoApplicant") == "true"

	if fileName == "" || folderID == "" {
		return fail(c, fiber.StatusBadRequest, "fileName and folderId are required")
	}

	step := types.StepApplicantDocs
	if isCoApplicant {
		step = types.StepCoApplicantDocs
	}

	h.progress.Update(sessionID, types.ProgressUpdate{
		FileName: fileName,
		Step:     step,
		Status:   types.ProgressUploading,
	})

	var stored *services.StoredFile
	var err error

	switch uploadType {
	case "direct":
		stored, err = h.uploadDirect(c, fileName, folderID)
	case "staged":
		blobURL := c.FormValue("blobUrl")
		if blobURL == "" {
			return fail(c, fiber.StatusBadRequest, "blobUrl is required for staged upload")
		}
		stored, err = h.storage.UploadFromStaged(
			c.UserContext(), blobURL, fileName, c.FormValue("mimeType"), folderID)
	default:
		return fail(c, fiber.StatusBadRequest, "invalid upload type")
	}

	if err != nil {
		h.progress.Update(sessionID, types.ProgressUpdate{
			FileName: fileName,
			Step:     step,
			Status:   types.ProgressError,
			Error:    "upload failed",
		})

		if errors.Is(err, services.ErrNotConfigured) {
			log.Er("storage is not configured", err)
			return fail(c, fiber.StatusInternalServerError, "Storage is not configured")
		}
		log.Er("failed to upload file", err, "fileName", fileName)
		return fail(c, fiber.StatusInternalServerError, "Failed to upload file")
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"message":     "File uploaded successfully",
		"fileId":      stored.ID,
		"fileName":    stored.Name,
		"webViewLink": stored.WebViewLink,
	})
}

func (h *LoanHandler) uploadDirect(c *fiber.Ctx, fileName, folderID string) (*services.StoredFile, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, errors.New("file is required for direct upload")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	return h.storage.UploadDirect(c.UserContext(), data, mimeType, fileName, folderID)
}

// submit accepts the full application and returns the application number
// immediately; the orchestrator continues in the background and the client
// polls progress for the outcome.
func (h *LoanHandler) submit(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("submit")

	application, err := parseApplication(c)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	applicationNumber, err := h.loanService.Submit(c.UserContext(), application)
	if err != nil {
		if errors.Is(err, services.ErrNotConfigured) {
			log.Er("storage is not configured", err)
			return fail(c, fiber.StatusInternalServerError, "Storage is not configured")
		}
		log.Er("failed to process loan application", err)
		return fail(c, fiber.StatusInternalServerError, "Failed to process loan application")
	}

	return c.JSON(fiber.Map{
		"success":           true,
		"message":           "Loan application submitted successfully",
		"applicationNumber": applicationNumber,
	})
}
