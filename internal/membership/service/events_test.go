package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/slma/membership/internal/membership/domain"
)

func newEventFixture(t *testing.T) (*EventService, *IdentityService) {
	t.Helper()
	st := newTestStore(t)
	identity := &IdentityService{Store: st, Signer: newTestSigner(t), Mailer: &recordingMailer{}}
	return &EventService{Store: st}, identity
}

func TestCreateEvent(t *testing.T) {
	svc, identity := newEventFixture(t)
	ctx := context.Background()

	owner := registerTestUser(t, identity, "owner@example.com")

	event, err := svc.CreateEvent(ctx, owner.ID, CreateEventInput{
		Title:    "Eid Gathering",
		Type:     domain.EventReligious,
		Location: "Worabe",
		StartsAt: time.Now().UTC().Add(72 * time.Hour),
		Capacity: 50,
	})
	require.NoError(t, err)
	require.Equal(t, domain.EventUpcoming, event.Status)
	require.Equal(t, owner.ID, event.CreatedBy)

	got, err := svc.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	require.Equal(t, "Eid Gathering", got.Title)
	require.Empty(t, got.Attendees)
}

func TestCreateEvent_Validation(t *testing.T) {
	svc, identity := newEventFixture(t)
	owner := registerTestUser(t, identity, "owner@example.com")

	_, err := svc.CreateEvent(context.Background(), owner.ID, CreateEventInput{
		Title:    "",
		Type:     domain.EventType("party"),
		Capacity: -1,
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "title")
	require.Contains(t, verr.Fields, "type")
	require.Contains(t, verr.Fields, "capacity")
}

func TestAttendAndLeave(t *testing.T) {
	svc, identity := newEventFixture(t)
	ctx := context.Background()

	owner := registerTestUser(t, identity, "owner@example.com")
	guest := registerTestUser(t, identity, "guest@example.com")

	event, err := svc.CreateEvent(ctx, owner.ID, CreateEventInput{
		Title:    "Coffee Ceremony",
		Type:     domain.EventCultural,
		StartsAt: time.Now().UTC().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	got, err := svc.Attend(ctx, event.ID, guest.ID)
	require.NoError(t, err)
	require.Contains(t, got.Attendees, guest.ID)

	_, err = svc.Attend(ctx, event.ID, guest.ID)
	require.ErrorIs(t, err, ErrAlreadyAttending)

	got, err = svc.Leave(ctx, event.ID, guest.ID)
	require.NoError(t, err)
	require.NotContains(t, got.Attendees, guest.ID)

	_, err = svc.Leave(ctx, event.ID, guest.ID)
	require.ErrorIs(t, err, ErrNotAttending)
}

func TestAttend_CapacityEnforced(t *testing.T) {
	svc, identity := newEventFixture(t)
	ctx := context.Background()

	owner := registerTestUser(t, identity, "owner@example.com")
	first := registerTestUser(t, identity, "first@example.com")
	second := registerTestUser(t, identity, "second@example.com")

	event, err := svc.CreateEvent(ctx, owner.ID, CreateEventInput{
		Title:    "Small Meetup",
		Type:     domain.EventNetworking,
		StartsAt: time.Now().UTC().Add(24 * time.Hour),
		Capacity: 1,
	})
	require.NoError(t, err)

	_, err = svc.Attend(ctx, event.ID, first.ID)
	require.NoError(t, err)

	_, err = svc.Attend(ctx, event.ID, second.ID)
	require.ErrorIs(t, err, ErrEventFull)
}

func TestAttend_DeadlinePassed(t *testing.T) {
	svc, identity := newEventFixture(t)
	ctx := context.Background()

	owner := registerTestUser(t, identity, "owner@example.com")
	guest := registerTestUser(t, identity, "guest@example.com")

	deadline := time.Now().UTC().Add(-time.Hour)
	event, err := svc.CreateEvent(ctx, owner.ID, CreateEventInput{
		Title:                "Planning Session",
		Type:                 domain.EventSocial,
		StartsAt:             time.Now().UTC().Add(24 * time.Hour),
		RegistrationDeadline: &deadline,
	})
	require.NoError(t, err)

	_, err = svc.Attend(ctx, event.ID, guest.ID)
	require.ErrorIs(t, err, ErrRegistrationClosed)
}

func TestAttend_UnknownEvent(t *testing.T) {
	svc, identity := newEventFixture(t)
	guest := registerTestUser(t, identity, "guest@example.com")

	_, err := svc.Attend(context.Background(), "01ARZ3NDEKTSV4RRFFQ69G5FAV", guest.ID)
	require.ErrorIs(t, err, ErrEventNotFound)
}
