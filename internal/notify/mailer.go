// Package notify sends reminder mail: unpaid-bill notices to customers and
// low-stock/expiry digests to the shop owner.
package notify

import (
	"crypto/tls"
	"fmt"

	"stockease/internal/config"

	"gopkg.in/gomail.v2"
)

// Sender dispatches a plain-text message to one or more recipients.
type Sender interface {
	Send(subject, body string, to ...string) error
}

// Mailer is the SMTP implementation of Sender.
type Mailer struct {
	cfg    config.Config
	dialer *gomail.Dialer
}

func NewMailer(cfg config.Config) *Mailer {
	dialer := gomail.NewDialer(cfg.MailerHost, cfg.MailerPort, cfg.MailerLogin, cfg.MailerPassword)
	dialer.TLSConfig = &tls.Config{
		ServerName: cfg.MailerHost,
		MinVersion: tls.VersionTLS12,
	}

	return &Mailer{cfg: cfg, dialer: dialer}
}

func (m *Mailer) Send(subject, body string, to ...string) error {
	msg := gomail.NewMessage(
		gomail.SetCharset("UTF-8"),
		gomail.SetEncoding(gomail.Base64),
	)

	msg.SetAddressHeader("From", m.cfg.MailerFrom, m.cfg.MailerFromName)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}
