package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"msp/config"
	"msp/internal/models"
	"msp/internal/types"

	logger "github.com/Bparsons0904/goLogger"
)

// LoanService is the submission orchestrator. It acknowledges a submission
// immediately and runs the side-effecting pipeline in the background:
// folders -> applicant documents -> co-applicant documents -> ledger row ->
// notifications. Steps are strictly sequential because each consumes
// identifiers produced by the previous one. The client observes the run
// through the progress store.
type LoanService struct {
	config   config.Config
	folders  *FoldersService
	storage  StorageService
	ledger   LedgerService
	email    *EmailService
	progress ProgressStore
	log      logger.Logger

	// runAsync detaches the processing pipeline from the request; tests
	// replace it to run synchronously.
	runAsync func(func())

	mu         sync.Mutex
	lastNumber int64
}

func NewLoanService(
	cfg config.Config,
	folders *FoldersService,
	storage StorageService,
	ledger LedgerService,
	email *EmailService,
	progress ProgressStore,
) *LoanService {
	return &LoanService{
		config:   cfg,
		folders:  folders,
		storage:  storage,
		ledger:   ledger,
		email:    email,
		progress: progress,
		log:      logger.New("loanService"),
		runAsync: func(fn func()) { go fn() },
	}
}

// NextApplicationNumber issues a unique MSP-XXXXXXXX number derived from the
// current unix-millis clock, with a monotonic guard so two submissions inside
// the same millisecond never collide within a process.
func (s *LoanService) NextApplicationNumber() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := time.Now().UnixMilli() % 100000000
	if n <= s.lastNumber {
		n = s.lastNumber + 1
	}
	s.lastNumber = n

	return fmt.Sprintf("MSP-%08d", n)
}

// CreateFolders builds the folder hierarchy ahead of file placement and
// returns the generated application number alongside it.
func (s *LoanService) CreateFolders(
	ctx context.Context,
	app *models.LoanApplication,
) (string, *models.FolderStructure, error) {
	log := s.log.Function("CreateFolders")

	if s.config.GoogleDriveFolderID == "" {
		return "", nil, ErrNotConfigured
	}

	applicationNumber := s.NextApplicationNumber()

	coName := ""
	if app.HasCoApplicant() {
		coName = app.CoApplicant.Name
	}

	structure, err := s.folders.Build(
		ctx,
		app.Applicant.Name,
		applicationNumber,
		app.ApplicantFiles,
		app.CoApplicantFiles,
		coName,
	)
	if err != nil {
		return "", nil, log.Err("failed to create folder structure", err,
			"applicationNumber", applicationNumber)
	}

	return applicationNumber, structure, nil
}

// Submit accepts a full application, returns its number immediately, and
// continues processing in the background. Once accepted the run goes to
// completion or terminal error regardless of the client connection; the
// caller polls progress to observe the outcome.
func (s *LoanService) Submit(ctx context.Context, app *models.LoanApplication) (string, error) {
	log := s.log.Function("Submit")

	// Fail fast before any side effect when storage is unconfigured.
	if s.config.GoogleDriveFolderID == "" {
		return "", ErrNotConfigured
	}

	app.ApplicationNumber = s.NextApplicationNumber()

	log.Info("accepted loan application",
		"applicationNumber", app.ApplicationNumber,
		"sessionID", app.SessionID,
		"hasCoApplicant", app.HasCoApplicant(),
	)

	s.runAsync(func() {
		s.process(context.Background(), app)
	})

	return app.ApplicationNumber, nil
}

func (s *LoanService) process(ctx context.Context, app *models.LoanApplication) {
	log := s.log.Function("process").With("applicationNumber", app.ApplicationNumber)
	defer log.Timer("process loan application")()

	coName := ""
	if app.HasCoApplicant() {
		coName = app.CoApplicant.Name
	}

	structure, err := s.folders.Build(
		ctx,
		app.Applicant.Name,
		app.ApplicationNumber,
		app.ApplicantFiles,
		app.CoApplicantFiles,
		coName,
	)
	if err != nil {
		log.Er("folder creation failed, aborting submission", err)
		s.failStep(app.SessionID, types.StepCreatingFolders, "", "folder creation failed")
		return
	}
	app.FolderLink = structure.MainFolderLink

	if err := s.placeDocuments(ctx, app, structure, false); err != nil {
		return
	}

	if app.HasCoApplicant() {
		if err := s.placeDocuments(ctx, app, structure, true); err != nil {
			return
		}
	}

	if err := s.recordLedger(ctx, app); err != nil {
		log.Er("ledger append failed, aborting submission", err)
		s.failStep(app.SessionID, types.StepFinalizing, "", "failed to record application")
		return
	}

	// The ledger is the authoritative record; email is best-effort and a
	// send failure never fails the submission.
	if err := s.notify(ctx, app); err != nil {
		log.Er("notification email failed", err)
	}

	s.progress.Complete(app.SessionID)
	log.Info("loan application processed", "folderLink", app.FolderLink)
}

// placeDocuments moves or uploads every file of one role into its resolved
// folder. Documents are all-or-nothing: the first failed placement aborts
// the submission.
func (s *LoanService) placeDocuments(
	ctx context.Context,
	app *models.LoanApplication,
	structure *models.FolderStructure,
	coApplicant bool,
) error {
	log := s.log.Function("placeDocuments").
		With("applicationNumber", app.ApplicationNumber, "coApplicant", coApplicant)

	registry := models.ApplicantDocuments
	files := app.ApplicantFiles
	step := types.StepApplicantDocs
	roleFolderID := structure.ApplicantFolderID
	roleFolderName := applicantFolderName
	subfolders := structure.ApplicantSubfolders

	if coApplicant {
		registry = models.CoApplicantDocuments
		files = app.CoApplicantFiles
		step = types.StepCoApplicantDocs
		roleFolderID = structure.CoApplicantFolderID
		roleFolderName = coApplicantFolderName
		subfolders = structure.CoApplicantSubfolders
	}

	for _, doc := range registry {
		docFiles := files[doc.Key]
		if len(docFiles) == 0 {
			continue
		}

		folderID := roleFolderID
		folderLabel := roleFolderName
		if subfolderID, ok := subfolders[doc.Key]; ok {
			folderID = subfolderID
			folderLabel = doc.Name
		}

		for _, file := range docFiles {
			s.progress.Update(app.SessionID, types.ProgressUpdate{
				FileName: file.Name,
				Step:     step,
				Status:   types.ProgressUploading,
				Folder:   folderLabel,
			})

			if err := s.placeFile(ctx, file, folderID); err != nil {
				log.Er("file placement failed, aborting submission", err,
					"document", doc.Key, "fileName", file.Name)
				s.failStep(app.SessionID, step, file.Name,
					fmt.Sprintf("failed to place %s", file.Name))
				return err
			}
		}
	}

	return nil
}

// placeFile routes one file to storage: already-uploaded files are moved into
// place, staged blobs are fetched and uploaded fresh.
func (s *LoanService) placeFile(ctx context.Context, file models.FileRef, folderID string) error {
	switch {
	case file.FileID != "":
		return s.storage.MoveToFolder(ctx, file.FileID, folderID)
	case file.BlobURL != "":
		_, err := s.storage.UploadFromStaged(ctx, file.BlobURL, file.Name, file.MimeType, folderID)
		return err
	case file.WebViewLink != "":
		// Older clients send only the staging link.
		_, err := s.storage.UploadFromStaged(ctx, file.WebViewLink, file.Name, file.MimeType, folderID)
		return err
	default:
		return fmt.Errorf("file %q has no storage reference", file.Name)
	}
}

func (s *LoanService) recordLedger(ctx context.Context, app *models.LoanApplication) error {
	row := []any{
		time.Now().UTC().Format(time.RFC3339),
		app.Applicant.Name,
		app.Applicant.Email,
		app.Applicant.Phone,
		app.Applicant.Location,
		app.Applicant.LoanAmount,
		app.Applicant.LoanType,
		app.FolderLink,
	}

	if app.HasCoApplicant() {
		row = append(row,
			app.CoApplicant.Name,
			app.CoApplicant.Email,
			app.CoApplicant.Phone,
			app.CoApplicant.Location,
			app.CoApplicant.MonthlyIncome,
			app.FolderLink,
		)
	} else {
		row = append(row, "", "", "", "", "", "")
	}

	return s.ledger.Append(ctx, LoanLedgerRange, row)
}

func (s *LoanService) notify(ctx context.Context, app *models.LoanApplication) error {
	return s.email.SendLoanNotification(ctx, LoanApplicationEmail{
		ApplicationNumber: app.ApplicationNumber,
		Name:              app.Applicant.Name,
		Email:             app.Applicant.Email,
		Phone:             app.Applicant.Phone,
		Location:          app.Applicant.Location,
		LoanAmount:        app.Applicant.LoanAmount,
		LoanType:          app.Applicant.LoanType,
		Message:           app.Applicant.Message,
		FolderLink:        app.FolderLink,
	})
}

func (s *LoanService) failStep(sessionID, step, fileName, reason string) {
	s.progress.Update(sessionID, types.ProgressUpdate{
		FileName: fileName,
		Step:     step,
		Status:   types.ProgressError,
		Error:    reason,
	})
}
