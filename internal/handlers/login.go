package handlers

import (
	"net/http"

	"github.com/vaarthai/vithai/internal/metrics"
)

// LoginRequest carries the shared admin password.
type LoginRequest struct {
	Password string `json:"password"`
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	Token string `json:"token"`
}

// Login exchanges the admin password for a bearer token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.passwords.Check(req.Password); err != nil {
		metrics.LoginAttempts.WithLabelValues("invalid").Inc()
		h.logger.Warn().Str("remote_addr", r.RemoteAddr).Msg("admin login rejected")
		h.Error(w, http.StatusUnauthorized, "Invalid password")
		return
	}

	token, err := h.tokens.Issue()
	if err != nil {
		h.logger.Error().Err(err).Msg("token signing failed")
		h.Error(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	metrics.LoginAttempts.WithLabelValues("ok").Inc()
	h.JSON(w, http.StatusOK, LoginResponse{Token: token})
}
