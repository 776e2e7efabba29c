package mail

import (
	"context"
	"log/slog"
)

// LogMailer logs instead of sending. It is the default when no SMTP host
// is configured, which keeps local development working without a relay.
type LogMailer struct {
	log *slog.Logger
}

func NewLogMailer(log *slog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) SendVerification(ctx context.Context, to, name, token string) error {
	m.log.InfoContext(ctx, "mail: verification", "to", to, "token", token)
	return nil
}

func (m *LogMailer) SendPasswordReset(ctx context.Context, to, name, token string) error {
	m.log.InfoContext(ctx, "mail: password reset", "to", to, "token", token)
	return nil
}

func (m *LogMailer) SendWelcome(ctx context.Context, to, name, membershipID string) error {
	m.log.InfoContext(ctx, "mail: welcome", "to", to, "membership_id", membershipID)
	return nil
}
