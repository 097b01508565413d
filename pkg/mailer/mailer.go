// Package mailer sends outbound mail over SMTP for the email workflow node.
package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

// Mailer sends HTML mail through a single SMTP endpoint.
type Mailer struct {
	addr        string
	auth        smtp.Auth
	defaultFrom string
	logger      *slog.Logger
	send        func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// Config holds the SMTP connection settings, usually populated from CLI flags.
type Config struct {
	Host        string
	Port        int
	Username    string
	Password    string
	DefaultFrom string
}

func NewMailer(logger *slog.Logger, cfg Config) *Mailer {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	return &Mailer{
		addr:        fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		auth:        auth,
		defaultFrom: cfg.DefaultFrom,
		logger:      logger,
		send:        smtp.SendMail,
	}
}

// Send delivers a single HTML message. An empty from falls back to the
// configured default sender.
func (m *Mailer) Send(ctx context.Context, to, subject, htmlBody, from string) error {
	if from == "" {
		from = m.defaultFrom
	}

	var msg strings.Builder

	msg.WriteString("From: " + from + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	err := m.send(m.addr, m.auth, from, []string{to}, []byte(msg.String()))
	if err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}

	m.logger.InfoContext(ctx, "Mail sent", "to", to, "subject", subject)

	return nil
}
