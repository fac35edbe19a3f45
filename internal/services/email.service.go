package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"msp/config"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/resend/resend-go/v2"
)

//go:embed templates/*.html
var emailTemplateFS embed.FS

// Template ids. Each id maps to one embedded HTML template and one data-only
// input struct; the rendering engine stays external to the core workflow.
const (
	TemplateLoanApplication      = "loan_application"
	TemplateLeadNotification     = "lead_notification"
	TemplateCustomerConfirmation = "customer_confirmation"
)

// LoanApplicationEmail is the input for the internal loan notification.
type LoanApplicationEmail struct {
	ApplicationNumber string
	Name              string
	Email             string
	Phone             string
	Location          string
	LoanAmount        string
	LoanType          string
	Message           string
	FolderLink        string
}

// LeadEmail is the input for the contact-form lead notification.
type LeadEmail struct {
	SubmissionID string
	Name         string
	Email        string
	Phone        string
	LoanType     string
	LoanAmount   string
	Message      string
}

// CustomerConfirmationEmail is the input for the applicant-facing
// confirmation message.
type CustomerConfirmationEmail struct {
	ApplicationNumber string
	Name              string
	LoanType          string
	LoanAmount        string
}

// EmailMessage is one rendered, addressed email ready for dispatch.
type EmailMessage struct {
	From    string
	To      string
	Subject string
	HTML    string
}

// EmailSender dispatches a rendered message via the configured provider.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// EmailService renders template-id keyed notifications and dispatches them.
// Send failures never roll back completed ledger or folder work; callers log
// them and move on.
type EmailService struct {
	config    config.Config
	sender    EmailSender
	templates *template.Template
	log       logger.Logger
}

func NewEmailService(cfg config.Config, sender EmailSender) (*EmailService, error) {
	log := logger.New("emailService")

	templates, err := template.ParseFS(emailTemplateFS, "templates/*.html")
	if err != nil {
		return nil, log.Err("failed to parse email templates", err)
	}

	return &EmailService{
		config:    cfg,
		sender:    sender,
		templates: templates,
		log:       log,
	}, nil
}

// SendLoanNotification sends the internal notification for a submitted
// application and, when the toggle is on, a confirmation to the applicant.
// The customer copy is best-effort either way.
func (s *EmailService) SendLoanNotification(ctx context.Context, data LoanApplicationEmail) error {
	log := s.log.Function("SendLoanNotification")

	html, err := s.render(TemplateLoanApplication, data)
	if err != nil {
		return err
	}

	err = s.sender.Send(ctx, EmailMessage{
		From:    s.config.EmailFrom,
		To:      s.config.EmailTo,
		Subject: fmt.Sprintf("New Loan Application - %s", data.ApplicationNumber),
		HTML:    html,
	})
	if err != nil {
		return log.Err("failed to send loan notification", err, "applicationNumber", data.ApplicationNumber)
	}

	if s.config.CustomerEmailEnabled {
		s.sendCustomerConfirmation(ctx, data)
	}

	return nil
}

func (s *EmailService) sendCustomerConfirmation(ctx context.Context, data LoanApplicationEmail) {
	log := s.log.Function("sendCustomerConfirmation")

	html, err := s.render(TemplateCustomerConfirmation, CustomerConfirmationEmail{
		ApplicationNumber: data.ApplicationNumber,
		Name:              data.Name,
		LoanType:          data.LoanType,
		LoanAmount:        data.LoanAmount,
	})
	if err != nil {
		log.Er("failed to render customer confirmation", err)
		return
	}

	err = s.sender.Send(ctx, EmailMessage{
		From:    s.config.EmailFrom,
		To:      data.Email,
		Subject: fmt.Sprintf("Loan Application Submitted - %s", data.ApplicationNumber),
		HTML:    html,
	})
	if err != nil {
		log.Er("failed to send customer confirmation", err, "applicationNumber", data.ApplicationNumber)
	}
}

// SendLeadNotification sends the internal notification for a contact-form
// lead.
func (s *EmailService) SendLeadNotification(ctx context.Context, data LeadEmail) error {
	log := s.log.Function("SendLeadNotification")

	html, err := s.render(TemplateLeadNotification, data)
	if err != nil {
		return err
	}

	err = s.sender.Send(ctx, EmailMessage{
		From:    s.config.EmailFrom,
		To:      s.config.EmailTo,
		Subject: fmt.Sprintf("New Loan Inquiry from %s", data.Name),
		HTML:    html,
	})
	if err != nil {
		return log.Err("failed to send lead notification", err, "submissionID", data.SubmissionID)
	}

	return nil
}

func (s *EmailService) render(templateID string, data any) (string, error) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, templateID+".html", data); err != nil {
		return "", s.log.Err("failed to render email template", err, "template", templateID)
	}
	return buf.String(), nil
}

// ResendSender dispatches email through Resend.
type ResendSender struct {
	client *resend.Client
	log    logger.Logger
}

func NewResendSender(apiKey string) *ResendSender {
	return &ResendSender{
		client: resend.NewClient(apiKey),
		log:    logger.New("resendSender"),
	}
}

func (s *ResendSender) Send(ctx context.Context, msg EmailMessage) error {
	_, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    msg.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		return s.log.Err("failed to send email via resend", err, "to", msg.To)
	}
	return nil
}
