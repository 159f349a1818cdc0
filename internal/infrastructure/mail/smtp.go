// Package mail delivers templated transactional email over SMTP.
// Templates live in the system_emails collection and are rendered with
// the #name# token syntax before being wrapped in the base layout.
package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hubcrm/accounts-api/internal/core/ports"
)

// Config captures the SMTP endpoint and credentials.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
}

// SMTPMailer implements ports.Mailer against a plain SMTP endpoint.
type SMTPMailer struct {
	cfg       Config
	templates ports.TemplateRepository
	logger    zerolog.Logger
	// send is swappable for tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPMailer(cfg Config, templates ports.TemplateRepository, logger zerolog.Logger) *SMTPMailer {
	return &SMTPMailer{
		cfg:       cfg,
		templates: templates,
		logger:    logger,
		send:      smtp.SendMail,
	}
}

// Send looks up the template by code, renders and delivers it. A missing
// template code is a hard failure (domain.ErrTemplateNotFound).
func (m *SMTPMailer) Send(ctx context.Context, job ports.MailJob) error {
	tpl, err := m.templates.FindByCode(ctx, job.TemplateCode)
	if err != nil {
		return err
	}

	html := wrapLayout(Render(tpl.Message, job.Vars), job.Vars)

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", tpl.FromName, tpl.FromEmail)
	fmt.Fprintf(&msg, "To: %s\r\n", job.To)
	if tpl.CC != "" {
		fmt.Fprintf(&msg, "Cc: %s\r\n", tpl.CC)
	}
	fmt.Fprintf(&msg, "Subject: %s\r\n", tpl.Subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(html)

	recipients := []string{job.To}
	if tpl.CC != "" {
		recipients = append(recipients, tpl.CC)
	}
	if tpl.BCC != "" {
		recipients = append(recipients, tpl.BCC)
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err := m.send(addr, auth, tpl.FromEmail, recipients, []byte(msg.String())); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	m.logger.Debug().Str("to", job.To).Str("template", job.TemplateCode).Msg("mail delivered")
	return nil
}
