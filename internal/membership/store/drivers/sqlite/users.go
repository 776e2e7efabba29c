package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/slma/membership/internal/membership/domain"
	"github.com/slma/membership/internal/membership/store"
)

type usersRepo struct {
	q querier
}

// userColumns is the canonical select list; scanUser mirrors its order.
const userColumns = `id, name, email, password_hash, phone, role, woreda, language,
	membership_tier, membership_status, membership_id, membership_start, membership_end,
	profile_bio, profile_photo, profile_occupation, profile_location,
	email_verified, verification_token, reset_token_hash, reset_expiry,
	last_login, is_active, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		u                 domain.User
		membershipStart   sql.NullTime
		membershipEnd     sql.NullTime
		verificationToken sql.NullString
		resetTokenHash    sql.NullString
		resetExpiry       sql.NullTime
		lastLogin         sql.NullTime
	)
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Phone, &u.Role, &u.Woreda, &u.Language,
		&u.Membership.Tier, &u.Membership.Status, &u.Membership.MembershipID, &membershipStart, &membershipEnd,
		&u.Profile.Bio, &u.Profile.Photo, &u.Profile.Occupation, &u.Profile.Location,
		&u.EmailVerified, &verificationToken, &resetTokenHash, &resetExpiry,
		&lastLogin, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	u.Membership.StartDate = mapNullTimePtr(membershipStart)
	u.Membership.EndDate = mapNullTimePtr(membershipEnd)
	u.VerificationToken = mapNullStringPtr(verificationToken)
	u.ResetTokenHash = mapNullStringPtr(resetTokenHash)
	u.ResetExpiry = mapNullTimePtr(resetExpiry)
	u.LastLogin = mapNullTimePtr(lastLogin)
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO users (
			id, name, email, password_hash, phone, role, woreda, language,
			membership_tier, membership_status, membership_id, membership_start, membership_end,
			profile_bio, profile_photo, profile_occupation, profile_location,
			email_verified, verification_token, reset_token_hash, reset_expiry,
			last_login, is_active, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Phone, u.Role, u.Woreda, u.Language,
		u.Membership.Tier, u.Membership.Status, u.Membership.MembershipID,
		mapOptionalTime(u.Membership.StartDate), mapOptionalTime(u.Membership.EndDate),
		u.Profile.Bio, u.Profile.Photo, u.Profile.Occupation, u.Profile.Location,
		u.EmailVerified, mapOptionalString(u.VerificationToken),
		mapOptionalString(u.ResetTokenHash), mapOptionalTime(u.ResetExpiry),
		mapOptionalTime(u.LastLogin), u.IsActive, u.CreatedAt, u.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByVerificationToken(ctx context.Context, token string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users WHERE verification_token = ?`, token)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByActiveResetToken(ctx context.Context, tokenHash string, now time.Time) (domain.User, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE reset_token_hash = ? AND reset_expiry > ?`, tokenHash, now)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	return r.exec(ctx, `UPDATE users SET last_login = ?, updated_at = ? WHERE id = ?`,
		at, at, userID)
}

func (r *usersRepo) MarkEmailVerified(ctx context.Context, userID string) error {
	return r.exec(ctx, `
		UPDATE users SET email_verified = 1, verification_token = NULL, updated_at = ?
		WHERE id = ?`, time.Now().UTC(), userID)
}

func (r *usersRepo) UpdateVerificationToken(ctx context.Context, userID string, token string) error {
	return r.exec(ctx, `
		UPDATE users SET verification_token = ?, updated_at = ?
		WHERE id = ?`, token, time.Now().UTC(), userID)
}

func (r *usersRepo) SetResetToken(ctx context.Context, userID string, tokenHash string, expiry time.Time) error {
	return r.exec(ctx, `
		UPDATE users SET reset_token_hash = ?, reset_expiry = ?, updated_at = ?
		WHERE id = ?`, tokenHash, expiry, time.Now().UTC(), userID)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID string, newHash string) error {
	return r.exec(ctx, `
		UPDATE users SET password_hash = ?, reset_token_hash = NULL, reset_expiry = NULL, updated_at = ?
		WHERE id = ?`, newHash, time.Now().UTC(), userID)
}

func (r *usersRepo) UpdateProfile(ctx context.Context, userID string, name, phone, language, woreda string, p domain.Profile) error {
	return r.exec(ctx, `
		UPDATE users SET
			name = ?, phone = ?, language = ?, woreda = ?,
			profile_bio = ?, profile_photo = ?, profile_occupation = ?, profile_location = ?,
			updated_at = ?
		WHERE id = ?`,
		name, phone, language, woreda,
		p.Bio, p.Photo, p.Occupation, p.Location,
		time.Now().UTC(), userID)
}

func (r *usersRepo) SetActive(ctx context.Context, userID string, active bool) error {
	return r.exec(ctx, `UPDATE users SET is_active = ?, updated_at = ? WHERE id = ?`,
		active, time.Now().UTC(), userID)
}

func (r *usersRepo) CountUsers(ctx context.Context, role domain.Role) (int64, error) {
	var n int64
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE role = ?`, role).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (r *usersRepo) ClearExpiredResetTokens(ctx context.Context, now time.Time) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE users SET reset_token_hash = NULL, reset_expiry = NULL, updated_at = ?
		WHERE reset_expiry IS NOT NULL AND reset_expiry <= ?`, now, now)
	return err
}

// exec runs a single-row update and maps a zero-row result to ErrNotFound.
func (r *usersRepo) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}
