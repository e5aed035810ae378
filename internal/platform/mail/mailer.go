// Package mail implements outbound transactional email over SMTP with
// STARTTLS. Templates are compiled at startup; a malformed template is a
// boot failure, not a runtime one.
package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/smtp"
	"net/url"
	"strings"
	"time"

	portssvc "github.com/antsoup/auth-backend/internal/core/ports/services"
	"github.com/antsoup/auth-backend/internal/platform/config"
)

const (
	dialTimeout = 8 * time.Second
	sendTimeout = 15 * time.Second
)

// SMTPMailer sends transactional mail through a single SMTP relay.
type SMTPMailer struct {
	host            string
	port            string
	username        string
	password        string
	fromAddress     string
	fromName        string
	frontendBaseURL string
	logger          *slog.Logger

	verificationTmpl *template.Template
	resetTmpl        *template.Template
	welcomeTmpl      *template.Template
}

var _ portssvc.MailSvc = (*SMTPMailer)(nil)

// NewSMTPMailer builds a mailer from config and parses the message templates.
func NewSMTPMailer(cfg *config.Config, logger *slog.Logger) (*SMTPMailer, error) {
	verificationTmpl, err := template.New("verification").Parse(verificationBody)
	if err != nil {
		return nil, fmt.Errorf("failed to parse verification template: %w", err)
	}
	resetTmpl, err := template.New("reset").Parse(resetBody)
	if err != nil {
		return nil, fmt.Errorf("failed to parse reset template: %w", err)
	}
	welcomeTmpl, err := template.New("welcome").Parse(welcomeBody)
	if err != nil {
		return nil, fmt.Errorf("failed to parse welcome template: %w", err)
	}

	return &SMTPMailer{
		host:             cfg.SMTPHost,
		port:             cfg.SMTPPort,
		username:         cfg.SMTPUsername,
		password:         cfg.SMTPPassword,
		fromAddress:      cfg.MailFromAddress,
		fromName:         cfg.MailFromName,
		frontendBaseURL:  cfg.FrontendBaseURL,
		logger:           logger,
		verificationTmpl: verificationTmpl,
		resetTmpl:        resetTmpl,
		welcomeTmpl:      welcomeTmpl,
	}, nil
}

// SendVerificationCode mails a 6-digit email verification code.
func (m *SMTPMailer) SendVerificationCode(ctx context.Context, to, code, username string) error {
	body, err := renderTemplate(m.verificationTmpl, map[string]string{
		"Username": username,
		"Code":     code,
	})
	if err != nil {
		return err
	}
	return m.send(ctx, to, "Verify your email address", body)
}

// SendPasswordResetEmail mails a password reset link containing the raw token.
func (m *SMTPMailer) SendPasswordResetEmail(ctx context.Context, to, resetToken, username string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s",
		strings.TrimRight(m.frontendBaseURL, "/"),
		url.QueryEscape(resetToken),
	)

	body, err := renderTemplate(m.resetTmpl, map[string]string{
		"Username": username,
		"Link":     link,
	})
	if err != nil {
		return err
	}
	return m.send(ctx, to, "Reset your password", body)
}

// SendWelcomeEmail mails the post-signup welcome message.
func (m *SMTPMailer) SendWelcomeEmail(ctx context.Context, to, username string) error {
	body, err := renderTemplate(m.welcomeTmpl, map[string]string{
		"Username": username,
	})
	if err != nil {
		return err
	}
	return m.send(ctx, to, "Welcome aboard", body)
}

func renderTemplate(tmpl *template.Template, data map[string]string) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render mail template: %w", err)
	}
	return buf.String(), nil
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, htmlBody string) error {
	fromHeader := fmt.Sprintf("%s <%s>", m.fromName, m.fromAddress)

	msg := strings.Join([]string{
		fmt.Sprintf("From: %s", fromHeader),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		htmlBody,
	}, "\r\n")

	m.logger.Info("Sending mail", slog.String("to", to), slog.String("subject", subject))

	if err := m.sendSMTPWithTimeout(ctx, to, []byte(msg)); err != nil {
		m.logger.Error("SMTP send failed", slog.String("to", to), slog.String("error", err.Error()))
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}

func (m *SMTPMailer) sendSMTPWithTimeout(ctx context.Context, to string, msg []byte) error {
	addr := net.JoinHostPort(m.host, m.port)

	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	// Deadline covers the whole SMTP conversation, not just the dial.
	_ = conn.SetDeadline(time.Now().Add(sendTimeout))

	c, err := smtp.NewClient(conn, m.host)
	if err != nil {
		return err
	}
	defer func() { _ = c.Quit() }()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: m.host}); err != nil {
			return err
		}
	}

	if m.username != "" {
		auth := smtp.PlainAuth("", m.username, m.password, m.host)
		if err := c.Auth(auth); err != nil {
			return err
		}
	}

	if err := c.Mail(m.fromAddress); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}

	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
