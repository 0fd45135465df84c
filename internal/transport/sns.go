// internal/transport/sns.go
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
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// SNSService is the subset of the SNS client the sender uses, defined for
// mocking in tests.
type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSSender publishes SMS messages through AWS SNS.
type SNSSender struct {
	client   SNSService
	senderID string
	settings settings.Provider
	logger   logger.Logger
}

func NewSNSSender(ctx context.Context, cfg appconfig.Config, provider settings.Provider, log logger.Logger) (*SNSSender, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Integrations.AWS.Region))
	if err != nil {
		return nil, err
	}
	return &SNSSender{
		client:   sns.NewFromConfig(awsCfg),
		senderID: cfg.Integrations.AWS.SNS.DefaultSMSSenderID,
		settings: provider,
		logger:   log.WithFields(map[string]interface{}{"transport": "sns"}),
	}, nil
}

func (s *SNSSender) SendSMS(ctx context.Context, number, text string) error {
	if !s.settings.GetBool(ctx, models.SettingCategoryNotifications, models.SettingKeySMSEnabled, true) {
		return apperrors.NewChannelDisabledError(models.ChannelSMS)
	}

	input := &sns.PublishInput{
		PhoneNumber: aws.String(number),
		Message:     aws.String(text),
	}
	if s.senderID != "" {
		input.MessageAttributes = map[string]types.MessageAttributeValue{
			"AWS.SNS.SMS.SenderID": {
				DataType:    aws.String("String"),
				StringValue: aws.String(s.senderID),
			},
		}
	}

	if _, err := s.client.Publish(ctx, input); err != nil {
		return apperrors.NewSMSSendError(err)
	}

	s.logger.Debug("sms published", map[string]interface{}{
		"to": number,
	})
	return nil
}
