package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/smtp"
	"time"

	"github.com/thefund-gallery/backend/config"
)

// Mailer sends transactional email. Every call site treats a send failure as
// best-effort: the error is logged, never propagated to the client.
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

func NewMailer(cfg config.MailConfigs) Mailer {
	if cfg.SMTPEnabled {
		return &smtpMailer{cfg: cfg}
	}

	if cfg.ResendAPIKey != "" {
		return &resendMailer{
			cfg:    cfg,
			client: &http.Client{Timeout: 10 * time.Second},
		}
	}

	return nopMailer{}
}

type smtpMailer struct {
	cfg config.MailConfigs
}

func (m *smtpMailer) Send(_ context.Context, to, subject, html string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n"+
		"MIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		m.cfg.FromEmail, to, subject, html)

	addr := m.cfg.SMTPHost + ":" + m.cfg.SMTPPort
	auth := smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPass, m.cfg.SMTPHost)
	if err := smtp.SendMail(addr, auth, m.cfg.FromEmail, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	return nil
}

type resendMailer struct {
	cfg    config.MailConfigs
	client *http.Client
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (m *resendMailer) Send(ctx context.Context, to, subject, html string) error {
	body, err := json.Marshal(resendRequest{
		From:    m.cfg.FromEmail,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx,
		http.MethodPost, "https://api.resend.com/emails", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.cfg.ResendAPIKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("resend returned status %d", resp.StatusCode)
	}

	return nil
}

// nopMailer is used when no transport is configured, e.g. in development.
type nopMailer struct{}

func (nopMailer) Send(context.Context, string, string, string) error {
	return nil
}
