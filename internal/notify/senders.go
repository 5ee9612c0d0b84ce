package notify

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// Sender delivers a single notification over one channel.
type Sender interface {
	Send(ctx context.Context, recipient, subject, message string) error
}

// SESSender delivers email through AWS SES.
type SESSender struct {
	client *sesv2.Client
	from   string
}

func NewSESSender(ctx context.Context, region, from string) (*SESSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("notify.NewSESSender: %w", err)
	}
	return &SESSender{client: sesv2.NewFromConfig(cfg), from: from}, nil
}

func (s *SESSender) Send(ctx context.Context, recipient, subject, message string) error {
	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.from),
		Destination: &types.Destination{
			ToAddresses: []string{recipient},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(message)},
				},
			},
		},
	}
	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("notify.SESSender.Send: %w", err)
	}
	return nil
}

// LogSender writes the notification to the process log instead of an
// external provider. Used for the SMS channel, which has no real gateway
// wired up, and for email in environments without SES credentials.
type LogSender struct {
	channel string
}

func NewLogSender(channel string) *LogSender {
	return &LogSender{channel: channel}
}

func (s *LogSender) Send(ctx context.Context, recipient, subject, message string) error {
	log.Printf("notify(%s): to=%s subject=%q body=%q", s.channel, recipient, subject, message)
	return nil
}
