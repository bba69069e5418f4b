package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vaarthai/vithai/internal/api/middleware"
	"github.com/vaarthai/vithai/internal/models"
)

// ListMessages returns the catalog as a JSON array.
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.catalog.List(r.Context())
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	if messages == nil {
		messages = []models.Message{}
	}
	h.JSON(w, http.StatusOK, messages)
}

// GetMessage returns one message, which may be a sub-message.
func (h *Handler) GetMessage(w http.ResponseWriter, r *http.Request) {
	m, err := h.catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	h.JSON(w, http.StatusOK, m)
}

// CreateMessage stores a new message at the top of the catalog.
func (h *Handler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	var m models.Message
	if !h.decode(w, r, &m) {
		return
	}

	created, err := h.catalog.Create(r.Context(), m)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	h.audit(r, "create", created.ID)
	h.JSON(w, http.StatusOK, created)
}

// UpdateMessage merges the request body into an existing message.
func (h *Handler) UpdateMessage(w http.ResponseWriter, r *http.Request) {
	var patch models.MessagePatch
	if !h.decode(w, r, &patch) {
		return
	}

	updated, err := h.catalog.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	h.audit(r, "update", updated.ID)
	h.JSON(w, http.StatusOK, updated)
}

// DeleteResponse acknowledges a delete.
type DeleteResponse struct {
	Success bool `json:"success"`
}

// DeleteMessage removes a message. Unknown ids succeed.
func (h *Handler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.catalog.Delete(r.Context(), id); err != nil {
		h.storeError(w, r, err)
		return
	}
	h.audit(r, "delete", id)
	h.JSON(w, http.StatusOK, DeleteResponse{Success: true})
}

// audit logs an admin change with the id of the token that made it.
func (h *Handler) audit(r *http.Request, op, id string) {
	event := h.logger.Info().Str("op", op).Str("id", id)
	if claims := middleware.GetClaimsFromContext(r.Context()); claims != nil {
		event = event.Str("token_id", claims.ID)
	}
	event.Msg("catalog changed")
}
