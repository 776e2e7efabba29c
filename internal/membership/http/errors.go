package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/slma/membership/internal/membership/service"
	"github.com/slma/membership/pkg/httpx"
	"github.com/slma/membership/pkg/memberapi"
	"github.com/slma/membership/pkg/slogx"
)

// writeServiceError maps the service sentinels onto HTTP statuses and the
// shared error envelope. Anything unrecognized is logged and reported as
// a bare 500 so internals never leak.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		httpx.WriteJSON(w, http.StatusBadRequest, memberapi.ErrorResponse{
			Success: false,
			Message: verr.Message,
			Errors:  verr.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, service.ErrAccountInactive):
		writeError(w, http.StatusUnauthorized, "Account is deactivated. Please contact support.")
	case errors.Is(err, service.ErrEmailTaken):
		httpx.WriteJSON(w, http.StatusConflict, memberapi.ErrorResponse{
			Success: false,
			Message: "Email already registered",
			Errors:  map[string]string{"email": "An account with this email already exists"},
		})
	case errors.Is(err, service.ErrTokenInvalid):
		writeError(w, http.StatusBadRequest, "Token is invalid or has expired")
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "No account found with this email")
	case errors.Is(err, service.ErrEmailAlreadyVerified):
		writeError(w, http.StatusBadRequest, "Email is already verified")
	case errors.Is(err, service.ErrEventNotFound):
		writeError(w, http.StatusNotFound, "Event not found")
	case errors.Is(err, service.ErrEventFull):
		writeError(w, http.StatusConflict, "Event is at capacity")
	case errors.Is(err, service.ErrEventClosed):
		writeError(w, http.StatusConflict, "Event is not open for attendance changes")
	case errors.Is(err, service.ErrRegistrationClosed):
		writeError(w, http.StatusConflict, "Registration deadline has passed")
	case errors.Is(err, service.ErrAlreadyAttending):
		writeError(w, http.StatusConflict, "You are already attending this event")
	case errors.Is(err, service.ErrNotAttending):
		writeError(w, http.StatusConflict, "You are not attending this event")
	default:
		slogx.FromContext(r.Context()).Error("unhandled service error", "err", err)
		writeError(w, http.StatusInternalServerError, "Server Error")
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	httpx.WriteJSON(w, code, memberapi.ErrorResponse{
		Success: false,
		Message: msg,
	})
}

// decodeJSON reads a JSON request body into dst, rejecting unknown
// content up front with a uniform 400.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
