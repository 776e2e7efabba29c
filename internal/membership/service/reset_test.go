package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/slma/membership/pkg/cryptox"
)

func TestPasswordResetFlow(t *testing.T) {
	st := newTestStore(t)
	mailer := &recordingMailer{}
	identity := &IdentityService{Store: st, Signer: newTestSigner(t), Mailer: mailer}
	svc := &PasswordResetService{Store: st, Mailer: mailer}
	ctx := context.Background()

	user := registerTestUser(t, identity, "reset@example.com")

	require.NoError(t, svc.RequestPasswordReset(ctx, "Reset@Example.com"))
	token := mailer.lastReset(t).Token
	require.NotEmpty(t, token)

	// Only the digest is stored, never the raw token.
	stored, err := st.Users().GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ResetTokenHash)
	require.NotEqual(t, token, *stored.ResetTokenHash)
	require.NotNil(t, stored.ResetExpiry)

	updated, err := svc.CompletePasswordReset(ctx, token, "new-password-1")
	require.NoError(t, err)
	require.Equal(t, user.ID, updated.ID)
	require.Nil(t, updated.ResetTokenHash)

	// Old password is dead, new one works.
	_, _, err = identity.Login(ctx, "reset@example.com", "correct-horse")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = identity.Login(ctx, "reset@example.com", "new-password-1")
	require.NoError(t, err)

	// The token is one-shot.
	_, err = svc.CompletePasswordReset(ctx, token, "another-password")
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestRequestPasswordReset_UnknownEmailSucceeds(t *testing.T) {
	mailer := &recordingMailer{}
	svc := &PasswordResetService{Store: newTestStore(t), Mailer: mailer}

	// Outwardly identical to the known-email case; nothing is mailed.
	require.NoError(t, svc.RequestPasswordReset(context.Background(), "nobody@example.com"))
	require.Empty(t, mailer.resets)
}

func TestCompletePasswordReset_ExpiredToken(t *testing.T) {
	st := newTestStore(t)
	mailer := &recordingMailer{}
	identity := &IdentityService{Store: st, Signer: newTestSigner(t), Mailer: mailer}
	svc := &PasswordResetService{Store: st, Mailer: mailer}
	ctx := context.Background()

	user := registerTestUser(t, identity, "expired@example.com")

	// Plant an already-expired token directly.
	token := cryptox.MustGenerateToken(cryptox.TokenSize160)
	err := st.Users().SetResetToken(ctx, user.ID, digestResetToken(token), time.Now().UTC().Add(-time.Minute))
	require.NoError(t, err)

	_, err = svc.CompletePasswordReset(ctx, token, "new-password-1")
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestCompletePasswordReset_WeakPassword(t *testing.T) {
	svc := &PasswordResetService{Store: newTestStore(t), Mailer: &recordingMailer{}}

	_, err := svc.CompletePasswordReset(context.Background(), "some-token", "short")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "password")
}
