package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/slma/membership/internal/membership/domain"
	"github.com/slma/membership/internal/membership/mail"
	"github.com/slma/membership/internal/membership/store"
	"github.com/slma/membership/pkg/cryptox"
	"github.com/slma/membership/pkg/slogx"
)

// ResetTokenTTL is how long a mailed reset link stays valid.
const ResetTokenTTL = time.Hour

// PasswordResetService owns the forgot/reset password flow.
type PasswordResetService struct {
	Store  store.Store
	Mailer mail.Mailer
}

// digestResetToken is the stored form of a reset token. A plain SHA-256
// fingerprint is enough here: the input is 160 bits of CSPRNG output, not
// a guessable password, and the digest doubles as an indexed lookup key.
func digestResetToken(token string) string {
	return cryptox.FingerprintToken(token)
}

// RequestPasswordReset mints a reset token and mails it. It reports
// success whether or not the email maps to an account, so the endpoint
// cannot be used to enumerate members.
func (s *PasswordResetService) RequestPasswordReset(ctx context.Context, email string) error {
	log := slogx.FromContext(ctx)

	// 1. Look up the account. Unknown addresses short-circuit to the
	// same outward success as known ones.
	user, err := s.Store.Users().GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Debug("password reset requested for unknown email")
			return nil
		}
		log.Error("failed to fetch user", slog.Any("error", err))
		return err
	}

	// 2. Mint the token; only its digest touches the database.
	token, err := cryptox.GenerateToken(cryptox.TokenSize160)
	if err != nil {
		log.Error("failed to generate reset token", slog.Any("error", err))
		return err
	}

	expiry := time.Now().UTC().Add(ResetTokenTTL)
	if err := s.Store.Users().SetResetToken(ctx, user.ID, digestResetToken(token), expiry); err != nil {
		log.Error("failed to store reset token",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
		return err
	}

	// 3. Mail the raw token. Best-effort: a relay failure must not leak
	// a different response to the caller.
	if err := s.Mailer.SendPasswordReset(ctx, user.Email, user.Name, token); err != nil {
		log.Warn("failed to send password reset email",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
	}

	log.Info("password reset requested", slog.String("user_id", user.ID))

	return nil
}

// CompletePasswordReset redeems a mailed reset token and installs the new
// password. The stored digest and expiry are cleared in the same update,
// so a token cannot be redeemed twice.
func (s *PasswordResetService) CompletePasswordReset(ctx context.Context, token, newPassword string) (domain.User, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate the new password before touching the database.
	if len(newPassword) < domain.MinPasswordLength {
		return domain.User{}, newValidationError("Invalid password", map[string]string{
			"password": "Password must be at least 8 characters",
		})
	}
	if token == "" {
		return domain.User{}, ErrTokenInvalid
	}

	// 2. Resolve the digest to a user with an unexpired token.
	user, err := s.Store.Users().GetUserByActiveResetToken(ctx, digestResetToken(token), time.Now().UTC())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("password reset attempted with invalid or expired token")
			return domain.User{}, ErrTokenInvalid
		}
		log.Error("failed to fetch user by reset token", slog.Any("error", err))
		return domain.User{}, err
	}

	// 3. Hash and install the new password.
	newHash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return domain.User{}, err
	}

	if err := s.Store.Users().UpdatePasswordHash(ctx, user.ID, newHash); err != nil {
		log.Error("failed to update password",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
		return domain.User{}, err
	}
	user.PasswordHash = newHash
	user.ResetTokenHash = nil
	user.ResetExpiry = nil

	log.Info("password reset completed", slog.String("user_id", user.ID))

	return user, nil
}
