package http

import (
	"net/http"

	"github.com/slma/membership/internal/membership/domain"
	"github.com/slma/membership/internal/membership/service"
	"github.com/slma/membership/pkg/httpx"
	"github.com/slma/membership/pkg/memberapi"
)

type EventsHandler struct {
	EventService *service.EventService
}

func (h *EventsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFromCtx(r.Context())

	var req memberapi.CreateEventRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	event, err := h.EventService.CreateEvent(r.Context(), userID, service.CreateEventInput{
		Title:                req.Title,
		Description:          req.Description,
		Type:                 domain.EventType(req.Type),
		Location:             req.Location,
		StartsAt:             req.StartsAt,
		EndsAt:               req.EndsAt,
		RegistrationDeadline: req.RegistrationDeadline,
		Capacity:             req.Capacity,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, memberapi.EventResponse{
		Success: true,
		Message: "Event created successfully",
		Event:   newEventView(event),
	})
}

func (h *EventsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	event, err := h.EventService.GetEvent(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, memberapi.EventResponse{
		Success: true,
		Event:   newEventView(event),
	})
}

func (h *EventsHandler) HandleAttend(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFromCtx(r.Context())

	event, err := h.EventService.Attend(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, memberapi.EventResponse{
		Success: true,
		Message: "You are attending this event",
		Event:   newEventView(event),
	})
}

func (h *EventsHandler) HandleLeave(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFromCtx(r.Context())

	event, err := h.EventService.Leave(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, memberapi.EventResponse{
		Success: true,
		Message: "You are no longer attending this event",
		Event:   newEventView(event),
	})
}
