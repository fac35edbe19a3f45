package services

import (
	"context"
	"testing"

	"msp/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailService_SendLoanNotification(t *testing.T) {
	sender := &fakeSender{}
	service, err := NewEmailService(config.Config{
		EmailFrom: "noreply@example.com",
		EmailTo:   "office@example.com",
	}, sender)
	require.NoError(t, err)

	err = service.SendLoanNotification(context.Background(), LoanApplicationEmail{
		ApplicationNumber: "MSP-00000042",
		Name:              "Ravi Kumar",
		Email:             "ravi@example.com",
		LoanType:          "Home Loan",
		LoanAmount:        "2500000",
		FolderLink:        "https://drive.example/folders/root",
	})
	require.NoError(t, err)

	require.Len(t, sender.Messages, 1)
	msg := sender.Messages[0]
	assert.Equal(t, "office@example.com", msg.To)
	assert.Equal(t, "New Loan Application - MSP-00000042", msg.Subject)
	assert.Contains(t, msg.HTML, "Ravi Kumar")
	assert.Contains(t, msg.HTML, "https://drive.example/folders/root")
}

func TestEmailService_SendLoanNotification_CustomerCopyToggle(t *testing.T) {
	sender := &fakeSender{}
	service, err := NewEmailService(config.Config{
		EmailFrom:            "noreply@example.com",
		EmailTo:              "office@example.com",
		CustomerEmailEnabled: true,
	}, sender)
	require.NoError(t, err)

	err = service.SendLoanNotification(context.Background(), LoanApplicationEmail{
		ApplicationNumber: "MSP-00000042",
		Name:              "Ravi Kumar",
		Email:             "ravi@example.com",
	})
	require.NoError(t, err)

	require.Len(t, sender.Messages, 2)
	assert.Equal(t, "office@example.com", sender.Messages[0].To)
	assert.Equal(t, "ravi@example.com", sender.Messages[1].To)
	assert.Contains(t, sender.Messages[1].Subject, "MSP-00000042")
}

func TestEmailService_SendLeadNotification(t *testing.T) {
	sender := &fakeSender{}
	service, err := NewEmailService(config.Config{
		EmailFrom: "noreply@example.com",
		EmailTo:   "office@example.com",
	}, sender)
	require.NoError(t, err)

	err = service.SendLeadNotification(context.Background(), LeadEmail{
		SubmissionID: "INQ-1756000000000-abc123def",
		Name:         "Anita Sharma",
		Phone:        "9812345670",
		LoanType:     "Personal Loan",
	})
	require.NoError(t, err)

	require.Len(t, sender.Messages, 1)
	assert.Equal(t, "New Loan Inquiry from Anita Sharma", sender.Messages[0].Subject)
	assert.Contains(t, sender.Messages[0].HTML, "INQ-1756000000000-abc123def")
}
