package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPConfig carries the relay settings plus the frontend base URL the
// emailed links point at.
type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	From        string
	FrontendURL string
}

// SMTPMailer sends through a plain SMTP relay with AUTH PLAIN when
// credentials are configured.
type SMTPMailer struct {
	cfg SMTPConfig
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) SendVerification(ctx context.Context, to, name, token string) error {
	link := fmt.Sprintf("%s/verify-email/%s", strings.TrimRight(m.cfg.FrontendURL, "/"), token)
	body := fmt.Sprintf(
		"Hello %s,\r\n\r\n"+
			"Welcome to the Silte Ledama Members Association. Please confirm your email address by visiting:\r\n\r\n"+
			"%s\r\n\r\n"+
			"If you did not create this account you can ignore this message.\r\n",
		name, link)
	return m.send(ctx, to, "Verify your email address", body)
}

func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, name, token string) error {
	link := fmt.Sprintf("%s/reset-password/%s", strings.TrimRight(m.cfg.FrontendURL, "/"), token)
	body := fmt.Sprintf(
		"Hello %s,\r\n\r\n"+
			"A password reset was requested for your account. The link below is valid for one hour:\r\n\r\n"+
			"%s\r\n\r\n"+
			"If you did not request a reset, no action is needed.\r\n",
		name, link)
	return m.send(ctx, to, "Reset your password", body)
}

func (m *SMTPMailer) SendWelcome(ctx context.Context, to, name, membershipID string) error {
	body := fmt.Sprintf(
		"Hello %s,\r\n\r\n"+
			"Your email address has been confirmed. Welcome aboard!\r\n\r\n"+
			"Your membership id is %s. Keep it handy for association events.\r\n",
		name, membershipID)
	return m.send(ctx, to, "Welcome to the association", body)
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := strings.Join([]string{
		"From: " + m.cfg.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		`Content-Type: text/plain; charset="utf-8"`,
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	return smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg))
}
