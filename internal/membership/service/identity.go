package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/slma/membership/internal/membership/domain"
	"github.com/slma/membership/internal/membership/mail"
	"github.com/slma/membership/internal/membership/store"
	"github.com/slma/membership/pkg/cryptox"
	"github.com/slma/membership/pkg/idx"
	"github.com/slma/membership/pkg/jwtx"
	"github.com/slma/membership/pkg/slogx"
)

// IdentityService owns registration and login.
type IdentityService struct {
	Store  store.Store
	Signer jwtx.Signer
	Mailer mail.Mailer
}

// RegisterInput is everything a caller may supply at sign-up. Membership
// and verification state are never caller-controlled.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Language string
	Woreda   string
	Profile  domain.Profile
}

// Register creates a new member account, assigns its membership id,
// dispatches the verification email and returns the user with a fresh
// session token.
func (s *IdentityService) Register(ctx context.Context, in RegisterInput) (domain.User, string, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate input.
	fields := map[string]string{}
	if strings.TrimSpace(in.Name) == "" {
		fields["name"] = "Name is required"
	}
	if !domain.ValidEmail(strings.TrimSpace(in.Email)) {
		fields["email"] = "Please provide a valid email address"
	}
	if len(in.Password) < domain.MinPasswordLength {
		fields["password"] = "Password must be at least 8 characters"
	}
	if strings.TrimSpace(in.Phone) == "" {
		fields["phone"] = "Phone is required"
	}
	if len(fields) > 0 {
		return domain.User{}, "", newValidationError("Invalid registration data", fields)
	}

	email := normalizeEmail(in.Email)

	// 2. Check email availability up front for a friendly error. The
	// unique index still backstops races.
	_, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err == nil {
		log.Warn("registration attempted with taken email")
		return domain.User{}, "", ErrEmailTaken
	}
	if !errors.Is(err, store.ErrNotFound) {
		log.Error("failed to check email availability", slog.Any("error", err))
		return domain.User{}, "", err
	}

	// 3. Hash the password using Argon2id.
	passwordHash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return domain.User{}, "", err
	}

	// 4. Generate the email verification token.
	verificationToken, err := cryptox.GenerateToken(cryptox.TokenSize160)
	if err != nil {
		log.Error("failed to generate verification token", slog.Any("error", err))
		return domain.User{}, "", err
	}

	now := time.Now().UTC()
	newUser := domain.NormalizeUser(domain.User{
		ID:                idx.New().String(),
		Name:              in.Name,
		Email:             email,
		PasswordHash:      passwordHash,
		Phone:             strings.TrimSpace(in.Phone),
		Language:          in.Language,
		Woreda:            in.Woreda,
		Profile:           in.Profile,
		VerificationToken: &verificationToken,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	})

	// 5. Assign the membership id and insert atomically so two
	// concurrent sign-ups cannot claim the same sequence number.
	err = s.Store.WithTx(ctx, func(tx store.Store) error {
		count, err := tx.Users().CountUsers(ctx, domain.RoleMember)
		if err != nil {
			return err
		}
		newUser.Membership.MembershipID = domain.NextMembershipID(now, count)

		if err := tx.Users().CreateUser(ctx, newUser); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrEmailTaken
			}
			return err
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrEmailTaken) {
			log.Error("failed to create user", slog.Any("error", err))
		}
		return domain.User{}, "", err
	}

	// 6. Email dispatch is best-effort; a relay outage must not undo the
	// registration.
	if err := s.Mailer.SendVerification(ctx, newUser.Email, newUser.Name, verificationToken); err != nil {
		log.Warn("failed to send verification email",
			slog.String("user_id", newUser.ID),
			slog.Any("error", err),
		)
	}

	// 7. Issue the session token.
	token, err := s.Signer.Issue(newUser.ID, string(newUser.Role))
	if err != nil {
		log.Error("failed to issue session token", slog.Any("error", err))
		return domain.User{}, "", err
	}

	log.Info("user registered",
		slog.String("user_id", newUser.ID),
		slog.String("membership_id", newUser.Membership.MembershipID),
	)

	return newUser, token, nil
}

// Login checks credentials and issues a session token. Unknown email and
// wrong password return the same error so the response cannot be used to
// probe which addresses hold accounts.
func (s *IdentityService) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	log := slogx.FromContext(ctx)

	email = normalizeEmail(email)
	if email == "" || password == "" {
		return domain.User{}, "", newValidationError("Missing credentials", map[string]string{
			"email": "Email and password are required",
		})
	}

	// 1. Look up the account.
	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("login attempted with unknown email")
			return domain.User{}, "", ErrInvalidCredentials
		}
		log.Error("failed to fetch user", slog.Any("error", err))
		return domain.User{}, "", err
	}

	// 2. Check the password.
	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			log.Warn("login attempted with wrong password",
				slog.String("user_id", user.ID),
			)
			return domain.User{}, "", ErrInvalidCredentials
		}
		log.Error("failed to verify password", slog.Any("error", err))
		return domain.User{}, "", err
	}

	// 3. Deactivated accounts keep their credentials but cannot sign in.
	if !user.IsActive {
		log.Warn("login attempted on deactivated account",
			slog.String("user_id", user.ID),
		)
		return domain.User{}, "", ErrAccountInactive
	}

	// 4. Stamp last_login.
	now := time.Now().UTC()
	if err := s.Store.Users().UpdateLastLogin(ctx, user.ID, now); err != nil {
		log.Error("failed to update last login",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
		return domain.User{}, "", err
	}
	user.LastLogin = &now

	// 5. Issue the session token.
	token, err := s.Signer.Issue(user.ID, string(user.Role))
	if err != nil {
		log.Error("failed to issue session token", slog.Any("error", err))
		return domain.User{}, "", err
	}

	log.Info("user logged in", slog.String("user_id", user.ID))

	return user, token, nil
}
