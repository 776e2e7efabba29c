package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/slma/membership/internal/membership/domain"
	"github.com/slma/membership/internal/membership/mail"
	"github.com/slma/membership/internal/membership/store"
	"github.com/slma/membership/pkg/cryptox"
	"github.com/slma/membership/pkg/slogx"
)

// VerificationService owns the email confirmation flow.
type VerificationService struct {
	Store  store.Store
	Mailer mail.Mailer
}

// VerifyEmail consumes a verification token. Tokens are single-use: the
// lookup only matches unconsumed tokens, so a replay falls through to
// ErrTokenInvalid.
func (s *VerificationService) VerifyEmail(ctx context.Context, token string) (domain.User, error) {
	log := slogx.FromContext(ctx)

	if token == "" {
		return domain.User{}, ErrTokenInvalid
	}

	// 1. Resolve the token to a pending user.
	user, err := s.Store.Users().GetUserByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("verification attempted with unknown token")
			return domain.User{}, ErrTokenInvalid
		}
		log.Error("failed to fetch user by verification token", slog.Any("error", err))
		return domain.User{}, err
	}

	// 2. Flip the flag and clear the token.
	if err := s.Store.Users().MarkEmailVerified(ctx, user.ID); err != nil {
		log.Error("failed to mark email verified",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
		return domain.User{}, err
	}
	user.EmailVerified = true
	user.VerificationToken = nil

	// 3. Welcome email is best-effort.
	if err := s.Mailer.SendWelcome(ctx, user.Email, user.Name, user.Membership.MembershipID); err != nil {
		log.Warn("failed to send welcome email",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
	}

	log.Info("email verified", slog.String("user_id", user.ID))

	return user, nil
}

// ResendVerification mints a fresh verification token for an account that
// has not confirmed its email yet. The previous token stops working.
func (s *VerificationService) ResendVerification(ctx context.Context, email string) error {
	log := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		log.Error("failed to fetch user", slog.Any("error", err))
		return err
	}

	if user.EmailVerified {
		return ErrEmailAlreadyVerified
	}

	token, err := cryptox.GenerateToken(cryptox.TokenSize160)
	if err != nil {
		log.Error("failed to generate verification token", slog.Any("error", err))
		return err
	}

	if err := s.Store.Users().UpdateVerificationToken(ctx, user.ID, token); err != nil {
		log.Error("failed to store verification token",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
		return err
	}

	if err := s.Mailer.SendVerification(ctx, user.Email, user.Name, token); err != nil {
		log.Warn("failed to send verification email",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
	}

	log.Info("verification email resent", slog.String("user_id", user.ID))

	return nil
}
