package handlers

import (
	"net/http"
	"unicode/utf8"

	"github.com/vaarthai/vithai/internal/search"
)

const maxQueryLength = 200

// SearchRequest asks for a ranking. Without candidates the whole catalog is
// ranked.
type SearchRequest struct {
	Query      string             `json:"query"`
	Candidates []search.Candidate `json:"candidates,omitempty"`
}

// SearchResponse lists message ids, most relevant first. Fallback is set
// when the ids come from the substring match rather than the provider.
type SearchResponse struct {
	IDs      []string `json:"ids"`
	Fallback bool     `json:"fallback,omitempty"`
}

// Search proxies the ranking provider. When the provider fails the
// candidates are matched by title and subtitle instead.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if !h.decode(w, r, &req) {
		return
	}
	if utf8.RuneCountInString(req.Query) > maxQueryLength {
		h.Error(w, http.StatusBadRequest, "query too long (max 200 chars)")
		return
	}

	candidates := req.Candidates
	if len(candidates) == 0 {
		messages, err := h.catalog.List(r.Context())
		if err != nil {
			h.storeError(w, r, err)
			return
		}
		candidates = search.Candidates(messages)
	}

	ids, err := h.provider.Rank(r.Context(), req.Query, candidates)
	if err != nil {
		h.logger.Warn().Err(err).Str("query", req.Query).Msg("search provider failed, using substring match")
		h.JSON(w, http.StatusOK, SearchResponse{IDs: search.FallbackIDs(req.Query, candidates), Fallback: true})
		return
	}
	if ids == nil {
		ids = []string{}
	}
	h.JSON(w, http.StatusOK, SearchResponse{IDs: ids})
}
