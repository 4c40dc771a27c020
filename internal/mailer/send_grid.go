package mailer

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/SeakMengs/MailBlast/pkg/broadcast"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// SendGridMailer is the alternate delivery provider. It authenticates with a
// server API key instead of the job's sender secret, so the sender address
// must be verified on the SendGrid account.
type SendGridMailer struct {
	fromEmail string
	client    *sendgrid.Client
	isSandBox bool
	logger    *zap.SugaredLogger
}

func NewSendgrid(apiKey string, fromEmail string, isProduction bool, logger *zap.SugaredLogger) *SendGridMailer {
	// For unit test
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	client := sendgrid.NewSendClient(apiKey)

	return &SendGridMailer{
		fromEmail: fromEmail,
		client:    client,
		// Sandbox mode is only used to validate your request. The email will never be delivered while this feature is enabled!
		isSandBox: !isProduction,
		logger:    logger,
	}
}

func (m *SendGridMailer) Send(ctx context.Context, msg broadcast.OutboundMessage) error {
	fromEmail := m.fromEmail
	if fromEmail == "" {
		fromEmail = msg.From
	}

	personalization := mail.NewPersonalization()
	personalization.AddTos(mail.NewEmail("", msg.To))
	for _, cc := range msg.CC {
		personalization.AddCCs(mail.NewEmail("", cc))
	}

	message := mail.NewV3Mail()
	message.SetFrom(mail.NewEmail("", fromEmail))
	message.Subject = msg.Subject
	message.AddPersonalizations(personalization)
	message.AddContent(
		mail.NewContent("text/plain", HTMLToPlainText(msg.HTMLBody)),
		mail.NewContent("text/html", msg.HTMLBody),
	)

	if msg.Attachment != nil {
		attachment := mail.NewAttachment()
		attachment.SetContent(base64.StdEncoding.EncodeToString(msg.Attachment.Content))
		attachment.SetType(AttachmentContentType(msg.Attachment.Filename))
		attachment.SetFilename(msg.Attachment.Filename)
		attachment.SetDisposition("attachment")
		message.AddAttachment(attachment)
	}

	message.SetMailSettings(&mail.MailSettings{
		SandboxMode: &mail.Setting{
			Enable: &m.isSandBox,
		},
	})

	response, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		m.logger.Errorw("failed to send email", "error", err, "toEmail", msg.To)
		return fmt.Errorf("failed to send email: %w", err)
	}

	if response.StatusCode >= 400 {
		m.logger.Errorw("sendgrid rejected message", "status", response.StatusCode, "body", response.Body, "toEmail", msg.To)
		return fmt.Errorf("sendgrid rejected message: status %d", response.StatusCode)
	}

	return nil
}
