package http

import (
	"net/http"

	"github.com/slma/membership/internal/membership/service"
	"github.com/slma/membership/pkg/httpx"
	"github.com/slma/membership/pkg/memberapi"
)

type LoginHandler struct {
	IdentityService *service.IdentityService
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req memberapi.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, token, err := h.IdentityService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, memberapi.AuthResponse{
		Success: true,
		Message: "Login successful",
		Token:   token,
		User:    newUserView(user),
	})
}
