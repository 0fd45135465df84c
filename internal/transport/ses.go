// internal/transport/ses.go
package transport

import (
	"context"

	appconfig "agency-notify/internal/common/config"
	apperrors "agency-notify/internal/common/errors"
	"agency-notify/internal/common/logger"
	"agency-notify/internal/models"
	"agency-notify/internal/settings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESService is the subset of the SES client the sender uses, defined for
// mocking in tests.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESSender delivers email through AWS SES; selected with
// notifications.email_provider = "ses".
type SESSender struct {
	client   SESService
	from     string
	settings settings.Provider
	logger   logger.Logger
}

func NewSESSender(ctx context.Context, cfg appconfig.Config, provider settings.Provider, log logger.Logger) (*SESSender, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Integrations.AWS.Region))
	if err != nil {
		return nil, err
	}
	return &SESSender{
		client:   ses.NewFromConfig(awsCfg),
		from:     cfg.Integrations.AWS.SES.FromEmail,
		settings: provider,
		logger:   log.WithFields(map[string]interface{}{"transport": "ses"}),
	}, nil
}

func (s *SESSender) SendEmail(ctx context.Context, address, subject, body string) error {
	if !s.settings.GetBool(ctx, models.SettingCategoryNotifications, models.SettingKeyEmailEnabled, true) {
		return apperrors.NewChannelDisabledError(models.ChannelEmail)
	}

	_, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{address},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(s.from),
	})
	if err != nil {
		return apperrors.NewEmailSendError(err)
	}

	s.logger.Debug("email accepted by SES", map[string]interface{}{
		"to": address,
	})
	return nil
}
