package services

import (
	"context"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESSender dispatches email through AWS SES, the alternate provider for
// deployments that already live in AWS.
type SESSender struct {
	client *ses.Client
	log    logger.Logger
}

func NewSESSender(ctx context.Context, region string) (*SESSender, error) {
	log := logger.New("sesSender")

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, log.Err("failed to load aws config", err)
	}

	return &SESSender{
		client: ses.NewFromConfig(cfg),
		log:    log,
	}, nil
}

func (s *SESSender) Send(ctx context.Context, msg EmailMessage) error {
	_, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(msg.From),
		Destination: &sestypes.Destination{
			ToAddresses: []string{msg.To},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(msg.Subject)},
			Body: &sestypes.Body{
				Html: &sestypes.Content{Data: aws.String(msg.HTML)},
			},
		},
	})
	if err != nil {
		return s.log.Err("failed to send email via ses", err, "to", msg.To)
	}
	return nil
}
