package handlers

import (
	"net/http"

	"github.com/vaarthai/vithai/internal/i18n"
	"github.com/vaarthai/vithai/internal/models"
)

// StringsResponse holds the UI strings for one language.
type StringsResponse struct {
	Lang    models.Language   `json:"lang"`
	Strings map[string]string `json:"strings"`
}

// Strings returns the UI text for ?lang or Accept-Language.
func (h *Handler) Strings(w http.ResponseWriter, r *http.Request) {
	lang := i18n.Negotiate(r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"))
	h.JSON(w, http.StatusOK, StringsResponse{Lang: lang, Strings: i18n.Strings(lang)})
}
