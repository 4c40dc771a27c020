package mailer

import (
	"context"
	"fmt"
	"io"

	"github.com/SeakMengs/MailBlast/pkg/broadcast"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// GmailMailer delivers through Gmail's SMTP relay with STARTTLS. It
// authenticates per message with the job's sender address and app password,
// so one service instance can send on behalf of any operator account.
type GmailMailer struct {
	host   string
	port   int
	logger *zap.SugaredLogger
}

func NewGmailMailer(host string, port int, logger *zap.SugaredLogger) *GmailMailer {
	if host == "" {
		host = "smtp.gmail.com"
	}
	if port == 0 {
		port = 587
	}
	// For unit test
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	return &GmailMailer{
		host:   host,
		port:   port,
		logger: logger,
	}
}

// Send submits one message in a single SMTP transaction covering the primary
// recipient and the CC list. One attempt, no retry; every failure comes back
// as an error value.
func (gm *GmailMailer) Send(_ context.Context, msg broadcast.OutboundMessage) error {
	message := gomail.NewMessage()
	message.SetHeader("From", msg.From)
	message.SetHeader("To", msg.To)
	if len(msg.CC) > 0 {
		message.SetHeader("Cc", msg.CC...)
	}
	message.SetHeader("Subject", msg.Subject)
	message.SetBody("text/plain", HTMLToPlainText(msg.HTMLBody))
	message.AddAlternative("text/html", msg.HTMLBody)

	if msg.Attachment != nil {
		attachment := msg.Attachment
		message.Attach(attachment.Filename,
			gomail.SetHeader(map[string][]string{
				"Content-Type": {AttachmentContentType(attachment.Filename)},
			}),
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(attachment.Content)
				return err
			}),
		)
	}

	dialer := gomail.NewDialer(gm.host, gm.port, msg.From, msg.Secret)

	if err := dialer.DialAndSend(message); err != nil {
		gm.logger.Errorw("failed to send email", "error", err, "toEmail", msg.To)
		return fmt.Errorf("failed to send email: %w", err)
	}

	gm.logger.Infow("email sent successfully", "toEmail", msg.To)

	return nil
}
