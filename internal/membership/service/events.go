package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/slma/membership/internal/membership/domain"
	"github.com/slma/membership/internal/membership/store"
	"github.com/slma/membership/pkg/idx"
	"github.com/slma/membership/pkg/slogx"
)

// EventService owns community events and their attendance lists.
type EventService struct {
	Store store.Store
}

type CreateEventInput struct {
	Title                string
	Description          string
	Type                 domain.EventType
	Location             string
	StartsAt             time.Time
	EndsAt               *time.Time
	RegistrationDeadline *time.Time
	Capacity             int
}

// CreateEvent records a new upcoming event owned by createdBy.
func (s *EventService) CreateEvent(ctx context.Context, createdBy string, in CreateEventInput) (domain.Event, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate input.
	fields := map[string]string{}
	if strings.TrimSpace(in.Title) == "" {
		fields["title"] = "Title is required"
	}
	if !in.Type.Valid() {
		fields["type"] = "Unknown event type"
	}
	if in.StartsAt.IsZero() {
		fields["startsAt"] = "Start time is required"
	}
	if in.EndsAt != nil && !in.EndsAt.After(in.StartsAt) {
		fields["endsAt"] = "End time must be after start time"
	}
	if in.Capacity < 0 {
		fields["capacity"] = "Capacity cannot be negative"
	}
	if len(fields) > 0 {
		return domain.Event{}, newValidationError("Invalid event data", fields)
	}

	now := time.Now().UTC()
	event := domain.Event{
		ID:                   idx.New().String(),
		Title:                strings.TrimSpace(in.Title),
		Description:          in.Description,
		Type:                 in.Type,
		Status:               domain.EventUpcoming,
		Location:             in.Location,
		StartsAt:             in.StartsAt,
		EndsAt:               in.EndsAt,
		RegistrationDeadline: in.RegistrationDeadline,
		Capacity:             in.Capacity,
		CreatedBy:            createdBy,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	// 2. Persist.
	if err := s.Store.Events().CreateEvent(ctx, event); err != nil {
		log.Error("failed to create event", slog.Any("error", err))
		return domain.Event{}, err
	}

	log.Info("event created",
		slog.String("event_id", event.ID),
		slog.String("created_by", createdBy),
	)

	return event, nil
}

// GetEvent fetches an event with its attendee list.
func (s *EventService) GetEvent(ctx context.Context, eventID string) (domain.Event, error) {
	event, err := s.Store.Events().GetEventByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Event{}, ErrEventNotFound
		}
		return domain.Event{}, err
	}
	return event, nil
}

// Attend puts userID on the attendee list. The capacity check and the
// insert run in one transaction so the list cannot overshoot under
// concurrent joins.
func (s *EventService) Attend(ctx context.Context, eventID, userID string) (domain.Event, error) {
	log := slogx.FromContext(ctx)

	var event domain.Event
	err := s.Store.WithTx(ctx, func(tx store.Store) error {
		var err error
		event, err = tx.Events().GetEventByID(ctx, eventID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrEventNotFound
			}
			return err
		}

		if event.Status != domain.EventUpcoming {
			return ErrEventClosed
		}
		if event.RegistrationClosed(time.Now().UTC()) {
			return ErrRegistrationClosed
		}
		if event.IsFull() {
			return ErrEventFull
		}

		if err := tx.Events().AddAttendee(ctx, eventID, userID); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrAlreadyAttending
			}
			return err
		}
		event.Attendees = append(event.Attendees, userID)
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrEventNotFound),
			errors.Is(err, ErrEventClosed),
			errors.Is(err, ErrRegistrationClosed),
			errors.Is(err, ErrEventFull),
			errors.Is(err, ErrAlreadyAttending):
		default:
			log.Error("failed to add attendee",
				slog.String("event_id", eventID),
				slog.Any("error", err),
			)
		}
		return domain.Event{}, err
	}

	log.Info("attendee added",
		slog.String("event_id", eventID),
		slog.String("user_id", userID),
	)

	return event, nil
}

// Leave removes userID from the attendee list.
func (s *EventService) Leave(ctx context.Context, eventID, userID string) (domain.Event, error) {
	log := slogx.FromContext(ctx)

	event, err := s.Store.Events().GetEventByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Event{}, ErrEventNotFound
		}
		return domain.Event{}, err
	}

	if event.Status != domain.EventUpcoming {
		return domain.Event{}, ErrEventClosed
	}

	if err := s.Store.Events().RemoveAttendee(ctx, eventID, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Event{}, ErrNotAttending
		}
		log.Error("failed to remove attendee",
			slog.String("event_id", eventID),
			slog.Any("error", err),
		)
		return domain.Event{}, err
	}

	kept := event.Attendees[:0]
	for _, id := range event.Attendees {
		if id != userID {
			kept = append(kept, id)
		}
	}
	event.Attendees = kept

	log.Info("attendee removed",
		slog.String("event_id", eventID),
		slog.String("user_id", userID),
	)

	return event, nil
}
