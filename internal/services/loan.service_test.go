package services

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"

	"msp/config"
	"msp/internal/models"
	"msp/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ledgerRow struct {
	Range  string
	Values []any
}

type fakeLedger struct {
	mu   sync.Mutex
	Rows []ledgerRow
	Err  error
}

func (f *fakeLedger) Append(_ context.Context, rangeName string, values []any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Err != nil {
		return f.Err
	}
	f.Rows = append(f.Rows, ledgerRow{Range: rangeName, Values: values})
	return nil
}

type fakeSender struct {
	mu       sync.Mutex
	Messages []EmailMessage
	Err      error
}

func (f *fakeSender) Send(_ context.Context, msg EmailMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Err != nil {
		return f.Err
	}
	f.Messages = append(f.Messages, msg)
	return nil
}

type loanFixture struct {
	service  *LoanService
	storage  *fakeStorage
	ledger   *fakeLedger
	sender   *fakeSender
	progress *MemoryProgressStore
}

// newLoanFixture wires a LoanService against in-memory fakes with background
// processing made synchronous so tests observe the full submission outcome.
func newLoanFixture(t *testing.T, cfg config.Config) *loanFixture {
	t.Helper()

	storage := &fakeStorage{}
	ledger := &fakeLedger{}
	sender := &fakeSender{}
	progress := NewMemoryProgressStore()

	email, err := NewEmailService(cfg, sender)
	require.NoError(t, err)

	service := NewLoanService(
		cfg,
		NewFoldersService(storage),
		storage,
		ledger,
		email,
		progress,
	)
	service.runAsync = func(fn func()) { fn() }

	return &loanFixture{
		service:  service,
		storage:  storage,
		ledger:   ledger,
		sender:   sender,
		progress: progress,
	}
}

func testConfig() config.Config {
	return config.Config{
		GoogleDriveFolderID: "root-folder",
		GoogleSheetsID:      "sheet-id",
		EmailFrom:           "noreply@example.com",
		EmailTo:             "office@example.com",
	}
}

func testApplication() *models.LoanApplication {
	return &models.LoanApplication{
		SessionID: "session-1",
		Applicant: models.Applicant{
			Name:       "Ravi Kumar",
			Email:      "ravi@example.com",
			Phone:      "9876543210",
			Location:   "Indore",
			LoanAmount: "2500000",
			LoanType:   "Home Loan",
		},
		ApplicantFiles: models.FileIndex{
			"pan":     {{Name: "pan.pdf", FileID: "staged-pan"}},
			"aadhaar": {{Name: "aadhaar.pdf", BlobURL: "https://blob.example/aadhaar"}},
		},
		CoApplicantFiles: models.FileIndex{},
	}
}

func TestLoanService_NextApplicationNumber_Format(t *testing.T) {
	fixture := newLoanFixture(t, testConfig())

	pattern := regexp.MustCompile(`^MSP-\d{8}$`)
	seen := make(map[string]bool)

	for i := 0; i < 50; i++ {
		number := fixture.service.NextApplicationNumber()
		assert.Regexp(t, pattern, number)
		assert.False(t, seen[number], "duplicate application number %s", number)
		seen[number] = true
	}
}

func TestLoanService_Submit_FullApplication(t *testing.T) {
	fixture := newLoanFixture(t, testConfig())
	fixture.progress.Initialize("session-1", 2)

	app := testApplication()
	number, err := fixture.service.Submit(context.Background(), app)
	require.NoError(t, err)
	assert.Regexp(t, `^MSP-\d{8}$`, number)

	// Staged file uploaded, already-stored file moved into place.
	require.Len(t, fixture.storage.Uploads, 1)
	assert.Equal(t, "aadhaar.pdf", fixture.storage.Uploads[0].FileName)
	require.Len(t, fixture.storage.Moves, 1)
	assert.Equal(t, "staged-pan", fixture.storage.Moves[0].FileID)

	require.Len(t, fixture.ledger.Rows, 1)
	row := fixture.ledger.Rows[0]
	assert.Equal(t, LoanLedgerRange, row.Range)
	require.Len(t, row.Values, 14)
	assert.Equal(t, "Ravi Kumar", row.Values[1])
	assert.Equal(t, "Home Loan", row.Values[6])
	// Co-applicant columns stay blank without one.
	for i := 8; i < 14; i++ {
		assert.Equal(t, "", row.Values[i])
	}

	require.Len(t, fixture.sender.Messages, 1)
	assert.Equal(t, "office@example.com", fixture.sender.Messages[0].To)
	assert.Contains(t, fixture.sender.Messages[0].Subject, number)

	record, ok := fixture.progress.Get("session-1")
	require.True(t, ok)
	assert.Equal(t, types.ProgressCompleted, record.Status)
	assert.Equal(t, 100, record.Percentage)
}

func TestLoanService_Submit_WithCoApplicant(t *testing.T) {
	fixture := newLoanFixture(t, testConfig())

	app := testApplication()
	app.CoApplicant = &models.CoApplicant{
		Name:          "Priya Kumar",
		Email:         "priya@example.com",
		Phone:         "9876500000",
		Location:      "Indore",
		MonthlyIncome: "85000",
	}
	app.CoApplicantFiles = models.FileIndex{
		"co_pan": {{Name: "co_pan.pdf", BlobURL: "https://blob.example/co_pan"}},
	}

	_, err := fixture.service.Submit(context.Background(), app)
	require.NoError(t, err)

	_, ok := fixture.storage.folderByName("Co-Applicant Details")
	assert.True(t, ok)

	require.Len(t, fixture.ledger.Rows, 1)
	row := fixture.ledger.Rows[0]
	require.Len(t, row.Values, 14)
	assert.Equal(t, "Priya Kumar", row.Values[8])
	assert.Equal(t, "85000", row.Values[12])
}

func TestLoanService_Submit_SubfolderPlacement(t *testing.T) {
	fixture := newLoanFixture(t, testConfig())

	app := testApplication()
	app.ApplicantFiles = models.FileIndex{
		"bank_statement": {
			{Name: "jan.pdf", BlobURL: "https://blob.example/jan"},
			{Name: "feb.pdf", BlobURL: "https://blob.example/feb"},
		},
	}

	_, err := fixture.service.Submit(context.Background(), app)
	require.NoError(t, err)

	subfolder, ok := fixture.storage.folderByName("Bank Statement")
	require.True(t, ok)

	require.Len(t, fixture.storage.Uploads, 2)
	for _, upload := range fixture.storage.Uploads {
		assert.Equal(t, subfolder.ID, upload.FolderID)
	}
}

func TestLoanService_Submit_EmailFailureStillSucceeds(t *testing.T) {
	fixture := newLoanFixture(t, testConfig())
	fixture.sender.Err = errors.New("smtp unreachable")
	fixture.progress.Initialize("session-1", 2)

	app := testApplication()
	_, err := fixture.service.Submit(context.Background(), app)
	require.NoError(t, err)

	assert.Len(t, fixture.ledger.Rows, 1)

	record, ok := fixture.progress.Get("session-1")
	require.True(t, ok)
	assert.Equal(t, types.ProgressCompleted, record.Status)
}

func TestLoanService_Submit_MissingRootConfigFailsFast(t *testing.T) {
	cfg := testConfig()
	cfg.GoogleDriveFolderID = ""
	fixture := newLoanFixture(t, cfg)

	app := testApplication()
	_, err := fixture.service.Submit(context.Background(), app)
	require.ErrorIs(t, err, ErrNotConfigured)

	assert.Empty(t, fixture.storage.Folders)
	assert.Empty(t, fixture.storage.Uploads)
	assert.Empty(t, fixture.ledger.Rows)
	assert.Empty(t, fixture.sender.Messages)
}

func TestLoanService_Submit_PlacementFailureAborts(t *testing.T) {
	fixture := newLoanFixture(t, testConfig())
	fixture.storage.MoveErr = errors.New("file not found")
	fixture.progress.Initialize("session-1", 2)

	app := testApplication()
	_, err := fixture.service.Submit(context.Background(), app)
	require.NoError(t, err)

	// Nothing downstream of the failed placement runs.
	assert.Empty(t, fixture.ledger.Rows)
	assert.Empty(t, fixture.sender.Messages)

	record, ok := fixture.progress.Get("session-1")
	require.True(t, ok)
	assert.Equal(t, types.ProgressError, record.Status)
}

func TestLoanService_Submit_LedgerFailureAborts(t *testing.T) {
	fixture := newLoanFixture(t, testConfig())
	fixture.ledger.Err = ErrLedgerNotConfigured
	fixture.progress.Initialize("session-1", 2)

	app := testApplication()
	_, err := fixture.service.Submit(context.Background(), app)
	require.NoError(t, err)

	assert.Empty(t, fixture.sender.Messages)

	record, ok := fixture.progress.Get("session-1")
	require.True(t, ok)
	assert.Equal(t, types.ProgressError, record.Status)
}

func TestLoanService_Submit_FolderFailureReportsStep(t *testing.T) {
	fixture := newLoanFixture(t, testConfig())
	fixture.storage.CreateErr = errors.New("quota exceeded")
	fixture.progress.Initialize("session-1", 2)

	app := testApplication()
	_, err := fixture.service.Submit(context.Background(), app)
	require.NoError(t, err)

	record, ok := fixture.progress.Get("session-1")
	require.True(t, ok)
	assert.Equal(t, types.ProgressError, record.Status)
	assert.Equal(t, types.StepError, record.Steps[0].Status)
}

func TestLoanService_CreateFolders(t *testing.T) {
	fixture := newLoanFixture(t, testConfig())

	app := testApplication()
	number, structure, err := fixture.service.CreateFolders(context.Background(), app)
	require.NoError(t, err)

	assert.Regexp(t, `^MSP-\d{8}$`, number)
	require.NotNil(t, structure)
	assert.NotEmpty(t, structure.MainFolderID)
	assert.NotEmpty(t, structure.ApplicantFolderID)
	assert.NotEmpty(t, structure.MainFolderLink)
}

func TestLoanService_CreateFolders_MissingRootConfig(t *testing.T) {
	cfg := testConfig()
	cfg.GoogleDriveFolderID = ""
	fixture := newLoanFixture(t, cfg)

	_, _, err := fixture.service.CreateFolders(context.Background(), testApplication())
	require.ErrorIs(t, err, ErrNotConfigured)
	assert.Empty(t, fixture.storage.Folders)
}
