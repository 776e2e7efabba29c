// Package mail delivers the transactional emails the membership flows
// produce. Delivery is best-effort: callers log failures but never fail
// the operation that triggered the email.
package mail

import "context"

type Mailer interface {
	// SendVerification mails the email-confirmation link carrying token.
	SendVerification(ctx context.Context, to, name, token string) error

	// SendPasswordReset mails the password-reset link carrying token.
	SendPasswordReset(ctx context.Context, to, name, token string) error

	// SendWelcome mails the post-verification welcome note carrying the
	// member's association id.
	SendWelcome(ctx context.Context, to, name, membershipID string) error
}
