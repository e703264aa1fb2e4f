// File: internal/email/mailer.go
package email

import (
	"context"

	"fintrack_backend/internal/common"
	"fintrack_backend/internal/config"
	"fintrack_backend/internal/shared"

	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"
)

// SMTPMailer implements shared.Mailer over SMTP. Sends are synchronous and
// never retried; a failure surfaces to the calling flow as a delivery error.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
	logger *zap.Logger
}

var _ shared.Mailer = (*SMTPMailer)(nil)

// NewSMTPMailer creates a new SMTP mail dispatcher.
func NewSMTPMailer(cfg *config.Config, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:   cfg.SMTPFrom,
		logger: logger.Named("SMTPMailer"),
	}
}

// Send dispatches a single transactional email.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, textBody, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", textBody)
	if htmlBody != "" {
		msg.AddAlternative("text/html", htmlBody)
	}

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.logger.Error("Failed to send email", zap.String("to", to), zap.String("subject", subject), zap.Error(err))
		return common.ErrDelivery.WithDetails(err.Error())
	}

	m.logger.Info("Email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}
