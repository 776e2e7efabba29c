package store

import (
	"context"
	"errors"
	"time"

	"github.com/slma/membership/internal/membership/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. Sub-repositories are exposed as methods so a driver can
// hand out transaction-scoped copies without the caller noticing.
type Store interface {
	Users() Users
	Events() Events

	ApplyMigrations() error

	// WithTx executes fn inside a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. The Store
	// passed to fn is scoped to the transaction and must not outlive it.
	WithTx(ctx context.Context, fn func(tx Store) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type Users interface {
	// CreateUser inserts a new user (id is provided by app via ULID).
	// Returns ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail looks up by the lowercased email (login path).
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// GetUserByVerificationToken returns the user holding an unconsumed
	// verification token.
	GetUserByVerificationToken(ctx context.Context, token string) (domain.User, error)

	// GetUserByActiveResetToken returns the user whose stored reset digest
	// matches and whose reset expiry is after now.
	GetUserByActiveResetToken(ctx context.Context, tokenHash string, now time.Time) (domain.User, error)

	// UpdateLastLogin stamps last_login and bumps updated_at.
	UpdateLastLogin(ctx context.Context, userID string, at time.Time) error

	// MarkEmailVerified sets email_verified and clears the token.
	MarkEmailVerified(ctx context.Context, userID string) error

	// UpdateVerificationToken replaces the pending verification token.
	UpdateVerificationToken(ctx context.Context, userID string, token string) error

	// SetResetToken stores the reset digest and its expiry together.
	SetResetToken(ctx context.Context, userID string, tokenHash string, expiry time.Time) error

	// UpdatePasswordHash sets the password_hash (argon2) and clears any
	// outstanding reset token fields.
	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error

	// UpdateProfile overwrites the mutable profile fields only. Email,
	// password, role and membership are untouched.
	UpdateProfile(ctx context.Context, userID string, name, phone, language, woreda string, p domain.Profile) error

	// SetActive toggles the is_active flag. Deactivated accounts keep
	// their data but cannot log in.
	SetActive(ctx context.Context, userID string, active bool) error

	// CountUsers returns the number of users with the given role.
	CountUsers(ctx context.Context, role domain.Role) (int64, error)

	// ClearExpiredResetTokens is housekeeping.
	ClearExpiredResetTokens(ctx context.Context, now time.Time) error
}

type Events interface {
	// CreateEvent inserts a new event (id is ULID).
	CreateEvent(ctx context.Context, e domain.Event) error

	// GetEventByID returns an event with its attendee list populated.
	GetEventByID(ctx context.Context, id string) (domain.Event, error)

	// AddAttendee registers a user on the attendee list.
	// Returns ErrAlreadyExists when the user is already attending.
	AddAttendee(ctx context.Context, eventID, userID string) error

	// RemoveAttendee takes a user off the attendee list.
	// Returns ErrNotFound when the user was not attending.
	RemoveAttendee(ctx context.Context, eventID, userID string) error
}
