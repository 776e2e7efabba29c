package domain

import "time"

// EventType is the closed set of community event categories.
type EventType string

const (
	EventCultural    EventType = "cultural"
	EventNetworking  EventType = "networking"
	EventEducational EventType = "educational"
	EventSocial      EventType = "social"
	EventReligious   EventType = "religious"
)

func (t EventType) Valid() bool {
	switch t {
	case EventCultural, EventNetworking, EventEducational, EventSocial, EventReligious:
		return true
	}
	return false
}

// EventStatus tracks an event through its lifecycle. Attendance changes
// are accepted only while the event is upcoming.
type EventStatus string

const (
	EventUpcoming  EventStatus = "upcoming"
	EventOngoing   EventStatus = "ongoing"
	EventCompleted EventStatus = "completed"
	EventCancelled EventStatus = "cancelled"
)

func (s EventStatus) Valid() bool {
	switch s {
	case EventUpcoming, EventOngoing, EventCompleted, EventCancelled:
		return true
	}
	return false
}

type Event struct {
	ID          string
	Title       string
	Description string
	Type        EventType
	Status      EventStatus
	Location    string
	StartsAt    time.Time
	EndsAt      *time.Time

	// RegistrationDeadline closes joining before the event starts;
	// nil means joining stays open while the event is upcoming.
	RegistrationDeadline *time.Time

	// Capacity caps the attendee list; zero means unlimited.
	Capacity int

	// Attendees holds user ids, no duplicates.
	Attendees []string

	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsFull reports whether the attendee list has reached capacity.
func (e *Event) IsFull() bool {
	return e.Capacity > 0 && len(e.Attendees) >= e.Capacity
}

// RegistrationClosed reports whether the registration deadline has passed
// as of now.
func (e *Event) RegistrationClosed(now time.Time) bool {
	return e.RegistrationDeadline != nil && now.After(*e.RegistrationDeadline)
}

// HasAttendee reports whether userID is already on the attendee list.
func (e *Event) HasAttendee(userID string) bool {
	for _, id := range e.Attendees {
		if id == userID {
			return true
		}
	}
	return false
}
