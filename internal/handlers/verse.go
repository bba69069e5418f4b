package handlers

import (
	"net/http"

	"github.com/vaarthai/vithai/internal/i18n"
	"github.com/vaarthai/vithai/internal/metrics"
)

// Verse returns today's verse. The language comes from ?lang, else
// Accept-Language. It always answers 200; provider failures give the
// fixed verse, which is not cached.
func (h *Handler) Verse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	lang := i18n.Negotiate(r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"))
	today := h.now()
	w.Header().Set("Content-Language", string(lang))

	if h.cache != nil {
		cached, err := h.cache.GetVerse(ctx, lang, today)
		if err != nil {
			h.logger.Warn().Err(err).Msg("verse cache read failed")
		} else if cached != nil {
			metrics.VerseCache.WithLabelValues("hit").Inc()
			h.JSON(w, http.StatusOK, cached)
			return
		}
		metrics.VerseCache.WithLabelValues("miss").Inc()
	}

	verse, fromProvider := h.provider.VerseOrFallback(ctx, lang)
	if fromProvider && h.cache != nil {
		if err := h.cache.SetVerse(ctx, lang, today, verse); err != nil {
			h.logger.Warn().Err(err).Msg("verse cache write failed")
		}
	}

	h.JSON(w, http.StatusOK, verse)
}
