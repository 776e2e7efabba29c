package http

import (
	"net/http"

	"github.com/slma/membership/internal/membership/service"
	"github.com/slma/membership/pkg/httpx"
	"github.com/slma/membership/pkg/memberapi"
)

type VerifyEmailHandler struct {
	VerificationService *service.VerificationService
}

func (h *VerifyEmailHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")

	user, err := h.VerificationService.VerifyEmail(r.Context(), token)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, memberapi.UserResponse{
		Success: true,
		Message: "Email verified successfully",
		User:    newUserView(user),
	})
}

type ResendVerificationHandler struct {
	VerificationService *service.VerificationService
}

func (h *ResendVerificationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req memberapi.ResendVerificationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.VerificationService.ResendVerification(r.Context(), req.Email); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, memberapi.MessageResponse{
		Success: true,
		Message: "Verification email sent",
	})
}
