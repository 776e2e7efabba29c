package http

import (
	"net/http"

	"github.com/slma/membership/internal/membership/domain"
	"github.com/slma/membership/internal/membership/service"
	"github.com/slma/membership/pkg/httpx"
	"github.com/slma/membership/pkg/memberapi"
)

type RegisterHandler struct {
	IdentityService *service.IdentityService
}

func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req memberapi.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, token, err := h.IdentityService.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Language: req.Language,
		Woreda:   req.Woreda,
		Profile: domain.Profile{
			Bio:        req.Profile.Bio,
			Photo:      req.Profile.Photo,
			Occupation: req.Profile.Occupation,
			Location:   req.Profile.Location,
		},
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, memberapi.AuthResponse{
		Success: true,
		Message: "Registration successful. Please check your email to verify your account.",
		Token:   token,
		User:    newUserView(user),
	})
}
