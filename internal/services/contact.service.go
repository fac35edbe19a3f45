package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"msp/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

// ContactService handles the simple lead form: one ledger row plus a
// notification email, no document handling.
type ContactService struct {
	ledger LedgerService
	email  *EmailService
	log    logger.Logger
}

func NewContactService(ledger LedgerService, email *EmailService) *ContactService {
	return &ContactService{
		ledger: ledger,
		email:  email,
		log:    logger.New("contactService"),
	}
}

// Submit records the lead and sends the internal notification. The ledger
// append is the authoritative step; a failed email is logged only.
func (s *ContactService) Submit(ctx context.Context, lead *models.Lead) (string, error) {
	log := s.log.Function("Submit")

	lead.SubmissionID = newSubmissionID()

	row := []any{
		time.Now().UTC().Format(time.RFC3339),
		lead.SubmissionID,
		lead.Name,
		lead.Email,
		lead.Phone,
		lead.LoanType,
		lead.LoanAmount,
		lead.Message,
	}

	if err := s.ledger.Append(ctx, LeadLedgerRange, row); err != nil {
		return "", log.Err("failed to record lead", err, "submissionID", lead.SubmissionID)
	}

	err := s.email.SendLeadNotification(ctx, LeadEmail{
		SubmissionID: lead.SubmissionID,
		Name:         lead.Name,
		Email:        lead.Email,
		Phone:        lead.Phone,
		LoanType:     lead.LoanType,
		LoanAmount:   lead.LoanAmount,
		Message:      lead.Message,
	})
	if err != nil {
		log.Er("failed to send lead notification", err, "submissionID", lead.SubmissionID)
	}

	log.Info("lead recorded", "submissionID", lead.SubmissionID)
	return lead.SubmissionID, nil
}

func newSubmissionID() string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:9]
	return fmt.Sprintf("INQ-%d-%s", time.Now().UnixMilli(), suffix)
}
