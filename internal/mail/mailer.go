// Package mail delivers the password-reset email. Production uses SES;
// development and tests use the logging mailer.
package mail

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.uber.org/zap"
)

type Mailer interface {
	SendPasswordReset(ctx context.Context, to, link string) error
}

type SESMailer struct {
	client *ses.Client
	from   string
}

func NewSESMailer(ctx context.Context, region, from string) (*SESMailer, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &SESMailer{client: ses.NewFromConfig(cfg), from: from}, nil
}

func (m *SESMailer) SendPasswordReset(ctx context.Context, to, link string) error {
	body := fmt.Sprintf(
		"We received a request to reset your RentHub password.\n\n"+
			"Follow this link to choose a new one:\n%s\n\n"+
			"The link expires in one hour. If you did not request a reset, ignore this email.",
		link,
	)

	_, err := m.client.SendEmail(ctx, &ses.SendEmailInput{
		Source:      aws.String(m.from),
		Destination: &types.Destination{ToAddresses: []string{to}},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String("Reset your RentHub password")},
			Body:    &types.Body{Text: &types.Content{Data: aws.String(body)}},
		},
	})
	return err
}

// LogMailer writes the reset link to the log instead of sending mail.
type LogMailer struct {
	Log *zap.Logger
}

func (m *LogMailer) SendPasswordReset(_ context.Context, to, link string) error {
	m.Log.Info("password reset requested", zap.String("to", to), zap.String("link", link))
	return nil
}
