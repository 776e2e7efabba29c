package http

import (
	"net/http"

	"github.com/slma/membership/internal/membership/domain"
	"github.com/slma/membership/internal/membership/service"
	"github.com/slma/membership/pkg/httpx"
	"github.com/slma/membership/pkg/memberapi"
)

type MeHandler struct {
	ProfileService *service.ProfileService
}

func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFromCtx(r.Context())

	user, err := h.ProfileService.GetUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, memberapi.UserResponse{
		Success: true,
		User:    newUserView(user),
	})
}

type UpdateProfileHandler struct {
	ProfileService *service.ProfileService
}

func (h *UpdateProfileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFromCtx(r.Context())

	var req memberapi.UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	upd := service.ProfileUpdate{
		Name:     req.Name,
		Phone:    req.Phone,
		Language: req.Language,
		Woreda:   req.Woreda,
	}
	if req.Profile != nil {
		upd.Profile = &domain.Profile{
			Bio:        req.Profile.Bio,
			Photo:      req.Profile.Photo,
			Occupation: req.Profile.Occupation,
			Location:   req.Profile.Location,
		}
	}

	user, err := h.ProfileService.UpdateProfile(r.Context(), userID, upd)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, memberapi.UserResponse{
		Success: true,
		Message: "Profile updated successfully",
		User:    newUserView(user),
	})
}
