package handlers

import (
	"net/http"
)

// Stats returns catalog statistics.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.catalog.Stats(r.Context())
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	h.JSON(w, http.StatusOK, st)
}
