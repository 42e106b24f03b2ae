// Package mailer provides best-effort transactional email delivery.
//
// Email failures are logged and swallowed by callers; they never affect order
// or registration state.
package mailer

import (
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

// Sender delivers a single email message.
type Sender interface {
	Send(to, subject, body string) error
}

// smtpSender delivers mail through a plain SMTP relay.
type smtpSender struct {
	addr string
	from string
	auth smtp.Auth
}

// NewSMTPSender creates a Sender against the given SMTP relay. Username may
// be empty to disable authentication.
func NewSMTPSender(addr, from, username, password string) Sender {
	var auth smtp.Auth
	if username != "" {
		host := addr
		if idx := strings.Index(addr, ":"); idx >= 0 {
			host = addr[:idx]
		}
		auth = smtp.PlainAuth("", username, password, host)
	}

	return &smtpSender{addr: addr, from: from, auth: auth}
}

// Send delivers the message via SMTP.
func (s *smtpSender) Send(to, subject, body string) error {
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		s.from, to, subject, body,
	)

	if err := smtp.SendMail(s.addr, s.auth, s.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}

// noopSender drops messages, logging them at debug level. Used when SMTP is
// disabled so the notification worker still completes deliveries.
type noopSender struct {
	logger *slog.Logger
}

// NewNoopSender creates a Sender that logs and drops every message.
func NewNoopSender(logger *slog.Logger) Sender {
	return &noopSender{logger: logger}
}

// Send logs the message and reports success.
func (s *noopSender) Send(to, subject, body string) error {
	s.logger.Debug("email delivery disabled, dropping message",
		slog.String("to", to),
		slog.String("subject", subject),
	)
	return nil
}
