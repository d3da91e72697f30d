package mailer

import (
	"fmt"

	gomail "gopkg.in/gomail.v2"
)

// SMTPConfig holds the mail relay settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Sender   string
}

// SMTP implements Mailer over a plain SMTP relay with STARTTLS.
type SMTP struct {
	dialer *gomail.Dialer
	sender string
}

// NewSMTP builds the relay client. No connection is made until Send.
func NewSMTP(cfg SMTPConfig) *SMTP {
	return &SMTP{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		sender: cfg.Sender,
	}
}

// Send delivers a single message through the relay.
func (s *SMTP) Send(to, subject, body, contentType string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.sender)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody(contentType, body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
