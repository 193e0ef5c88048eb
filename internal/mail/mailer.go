// Package mail delivers transactional email over SMTP
package mail

import (
	"fmt"

	"go.uber.org/zap"
	gomail "gopkg.in/mail.v2"
)

// Mailer sends plain-text email through a configured SMTP account
type Mailer struct {
	dialer *gomail.Dialer
	from   string
	logger *zap.Logger
}

// NewMailer creates a mailer bound to an SMTP host and account
func NewMailer(host string, port int, username, password, from string, logger *zap.Logger) *Mailer {
	if from == "" {
		from = username
	}
	return &Mailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
		logger: logger,
	}
}

// Send delivers a plain-text message to a single recipient
func (m *Mailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.logger.Error("failed to send email", zap.Error(err), zap.String("to", to))
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
