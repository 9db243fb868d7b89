// internal/leads/notifier.go
package leads

import (
	"context"
	"fmt"

	"nursing-predictor/internal/common/config"
	"nursing-predictor/internal/common/errors"
	"nursing-predictor/internal/common/logger"
	"nursing-predictor/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// Interfaces over the AWS clients so tests can mock delivery.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Notifier pushes new-lead alerts to the counselling team. Delivery is best
// effort; a failed alert never fails the lead capture.
type Notifier struct {
	config    config.NotificationConfig
	sesClient SESService
	snsClient SNSService
	logger    logger.Logger
}

func NewNotifier(cfg config.NotificationConfig, sesClient SESService, snsClient SNSService, log logger.Logger) *Notifier {
	return &Notifier{
		config:    cfg,
		sesClient: sesClient,
		snsClient: snsClient,
		logger:    log.WithFields(map[string]interface{}{"component": "leads.notifier"}),
	}
}

// Notify sends the enabled channels for a captured lead.
func (n *Notifier) Notify(ctx context.Context, lead *models.Lead) {
	if n.config.Email.Enabled && n.sesClient != nil {
		if err := n.sendEmail(ctx, lead); err != nil {
			n.logger.WithError(err).Warn("lead email alert failed", map[string]interface{}{
				"leadId": lead.ID,
			})
		}
	}

	if n.config.SMS.Enabled && n.snsClient != nil {
		if err := n.sendSMS(ctx, lead); err != nil {
			n.logger.WithError(err).Warn("lead sms alert failed", map[string]interface{}{
				"leadId": lead.ID,
			})
		}
	}
}

func (n *Notifier) sendEmail(ctx context.Context, lead *models.Lead) error {
	subject := fmt.Sprintf("New counselling lead: %s", lead.Name)
	body := fmt.Sprintf(
		"Name: %s\nPhone: %s\nEmail: %s\nRank: %d\nCategory: %s\nBranch: %s\nSource: %s\n",
		lead.Name, lead.Phone, lead.Email, lead.Rank, lead.Category, lead.Branch, lead.Source)

	_, err := n.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(n.config.Email.FromEmail),
		Destination: &sestypes.Destination{
			ToAddresses: []string{n.config.Email.ToEmail},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(body)},
			},
		},
	})
	if err != nil {
		return errors.NewNotificationSendFailedError("email", err)
	}
	return nil
}

func (n *Notifier) sendSMS(ctx context.Context, lead *models.Lead) error {
	message := fmt.Sprintf("New lead: %s, %s, rank %d (%s)", lead.Name, lead.Phone, lead.Rank, lead.Category)

	_, err := n.snsClient.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(n.config.SMS.ToPhone),
		Message:     aws.String(message),
	})
	if err != nil {
		return errors.NewNotificationSendFailedError("sms", err)
	}
	return nil
}
