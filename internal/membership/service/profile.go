package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/slma/membership/internal/membership/domain"
	"github.com/slma/membership/internal/membership/store"
	"github.com/slma/membership/pkg/slogx"
)

// ProfileService owns reads and self-service updates of the user record.
type ProfileService struct {
	Store store.Store
}

// GetUser fetches a user by id.
func (s *ProfileService) GetUser(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// ProfileUpdate carries the fields a member may change about themselves.
// Nil pointers mean "leave as is". Email, password, role and membership
// are deliberately absent: they each have their own flow.
type ProfileUpdate struct {
	Name     *string
	Phone    *string
	Language *string
	Woreda   *string
	Profile  *domain.Profile
}

// UpdateProfile merges the update into the stored record and persists the
// result. An unknown woreda or language is coerced to the domain default
// rather than failing the whole update.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (domain.User, error) {
	log := slogx.FromContext(ctx)

	// 1. Load the current record.
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		log.Error("failed to fetch user", slog.Any("error", err))
		return domain.User{}, err
	}

	// 2. Merge the provided fields.
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return domain.User{}, newValidationError("Invalid profile data", map[string]string{
				"name": "Name cannot be empty",
			})
		}
		user.Name = name
	}
	if upd.Phone != nil {
		user.Phone = strings.TrimSpace(*upd.Phone)
	}
	if upd.Language != nil && domain.ValidLanguage(*upd.Language) {
		user.Language = *upd.Language
	}
	if upd.Woreda != nil {
		user.Woreda = *upd.Woreda
	}
	if upd.Profile != nil {
		user.Profile = *upd.Profile
	}

	user = domain.NormalizeUser(user)

	// 3. Persist only the mutable columns.
	err = s.Store.Users().UpdateProfile(ctx, user.ID,
		user.Name, user.Phone, user.Language, user.Woreda, user.Profile)
	if err != nil {
		log.Error("failed to update profile",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
		return domain.User{}, err
	}

	log.Info("profile updated", slog.String("user_id", user.ID))

	return user, nil
}
