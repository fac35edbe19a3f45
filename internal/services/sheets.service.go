package services

import (
	"context"
	"errors"
	"time"

	"msp/config"

	logger "github.com/Bparsons0904/goLogger"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const (
	// LoanLedgerRange is the named range receiving full loan applications.
	LoanLedgerRange = "Loan Application!A:Z"
	// LeadLedgerRange is the named range receiving contact-form leads.
	LeadLedgerRange = "Sheet2!A:Z"

	sheetsCallTimeout = 30 * time.Second
)

// ErrLedgerNotConfigured is returned when the spreadsheet id is missing.
var ErrLedgerNotConfigured = errors.New("ledger spreadsheet is not configured")

// LedgerService is the append-only tabular record of submissions. Writes from
// concurrent submissions are safe: the backing store serializes appends and
// nothing here reads before writing.
type LedgerService interface {
	Append(ctx context.Context, rangeName string, values []any) error
}

// SheetsService implements LedgerService against Google Sheets.
type SheetsService struct {
	config config.Config
	sheets *sheets.Service
	log    logger.Logger
}

func NewSheetsService(cfg config.Config) (*SheetsService, error) {
	log := logger.New("sheetsService")

	client := newGoogleHTTPClient(context.Background(), cfg, sheets.SpreadsheetsScope)
	svc, err := sheets.NewService(context.Background(), option.WithHTTPClient(client))
	if err != nil {
		return nil, log.Err("failed to create sheets client", err)
	}

	return &SheetsService{
		config: cfg,
		sheets: svc,
		log:    log,
	}, nil
}

func (s *SheetsService) Append(ctx context.Context, rangeName string, values []any) error {
	log := s.log.Function("Append")
	defer log.Timer("append ledger row")()

	if s.config.GoogleSheetsID == "" {
		return ErrLedgerNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, sheetsCallTimeout)
	defer cancel()

	_, err := s.sheets.Spreadsheets.Values.Append(
		s.config.GoogleSheetsID,
		rangeName,
		&sheets.ValueRange{Values: [][]any{values}},
	).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return log.Err("failed to append ledger row", err, "range", rangeName)
	}

	return nil
}
