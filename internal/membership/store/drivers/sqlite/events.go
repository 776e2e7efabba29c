package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/slma/membership/internal/membership/domain"
	"github.com/slma/membership/internal/membership/store"
)

type eventsRepo struct {
	q querier
}

func (r *eventsRepo) CreateEvent(ctx context.Context, e domain.Event) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO events (
			id, title, description, type, status, location,
			starts_at, ends_at, registration_deadline, capacity, created_by, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Title, e.Description, e.Type, e.Status, e.Location,
		e.StartsAt, mapOptionalTime(e.EndsAt), mapOptionalTime(e.RegistrationDeadline),
		e.Capacity, e.CreatedBy, e.CreatedAt, e.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *eventsRepo) GetEventByID(ctx context.Context, id string) (domain.Event, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT id, title, description, type, status, location,
			starts_at, ends_at, registration_deadline, capacity, created_by, created_at, updated_at
		FROM events WHERE id = ?`, id)

	var (
		e        domain.Event
		endsAt   sql.NullTime
		deadline sql.NullTime
	)
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.Type, &e.Status, &e.Location,
		&e.StartsAt, &endsAt, &deadline, &e.Capacity, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return domain.Event{}, mapNotFound(err)
	}
	e.EndsAt = mapNullTimePtr(endsAt)
	e.RegistrationDeadline = mapNullTimePtr(deadline)

	rows, err := r.q.QueryContext(ctx, `
		SELECT user_id FROM event_attendees WHERE event_id = ? ORDER BY joined_at`, id)
	if err != nil {
		return domain.Event{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return domain.Event{}, err
		}
		e.Attendees = append(e.Attendees, userID)
	}
	if err := rows.Err(); err != nil {
		return domain.Event{}, err
	}
	return e, nil
}

func (r *eventsRepo) AddAttendee(ctx context.Context, eventID, userID string) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO event_attendees (event_id, user_id, joined_at) VALUES (?, ?, ?)`,
		eventID, userID, time.Now().UTC())
	return mapConstraint(err)
}

func (r *eventsRepo) RemoveAttendee(ctx context.Context, eventID, userID string) error {
	res, err := r.q.ExecContext(ctx, `
		DELETE FROM event_attendees WHERE event_id = ? AND user_id = ?`, eventID, userID)
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
