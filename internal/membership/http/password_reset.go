package http

import (
	"net/http"

	"github.com/slma/membership/internal/membership/service"
	"github.com/slma/membership/pkg/httpx"
	"github.com/slma/membership/pkg/memberapi"
)

// forgotPasswordMessage is returned whether or not the email maps to an
// account, so the endpoint cannot be used to enumerate members.
const forgotPasswordMessage = "If an account exists with this email, a password reset link has been sent."

type ForgotPasswordHandler struct {
	ResetService *service.PasswordResetService
}

func (h *ForgotPasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req memberapi.ForgotPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.ResetService.RequestPasswordReset(r.Context(), req.Email); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, memberapi.MessageResponse{
		Success: true,
		Message: forgotPasswordMessage,
	})
}

type ResetPasswordHandler struct {
	ResetService *service.PasswordResetService
}

func (h *ResetPasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")

	var req memberapi.ResetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if _, err := h.ResetService.CompletePasswordReset(r.Context(), token, req.Password); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, memberapi.MessageResponse{
		Success: true,
		Message: "Password has been reset successfully",
	})
}
