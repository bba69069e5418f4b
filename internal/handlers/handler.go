package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/vaarthai/vithai/internal/crypto"
	"github.com/vaarthai/vithai/internal/models"
	"github.com/vaarthai/vithai/internal/provider"
	"github.com/vaarthai/vithai/internal/store"
)

// VerseCache stores one verse per language per day.
type VerseCache interface {
	Ping(ctx context.Context) error
	GetVerse(ctx context.Context, lang models.Language, day time.Time) (*models.DailyVerse, error)
	SetVerse(ctx context.Context, lang models.Language, day time.Time, v models.DailyVerse) error
}

// Options are the dependencies of a Handler. Cache may be nil.
type Options struct {
	Catalog   *store.Catalog
	Cache     VerseCache
	Provider  *provider.Provider
	Passwords *crypto.PasswordChecker
	Tokens    *crypto.TokenIssuer
	Logger    zerolog.Logger
}

// Handler contains shared dependencies for all HTTP handlers.
type Handler struct {
	catalog   *store.Catalog
	cache     VerseCache
	provider  *provider.Provider
	passwords *crypto.PasswordChecker
	tokens    *crypto.TokenIssuer
	logger    zerolog.Logger
	now       func() time.Time
}

// NewHandler creates a new Handler.
func NewHandler(opts Options) *Handler {
	return &Handler{
		catalog:   opts.Catalog,
		cache:     opts.Cache,
		provider:  opts.Provider,
		passwords: opts.Passwords,
		tokens:    opts.Tokens,
		logger:    opts.Logger,
		now:       time.Now,
	}
}

// JSON sends a JSON response with the given status code.
func (h *Handler) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Error sends a JSON error response with the given status code.
func (h *Handler) Error(w http.ResponseWriter, status int, message string) {
	h.JSON(w, status, map[string]string{"error": message})
}

// decode reads a JSON request body into v, writing a 400 on failure.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.Error(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// storeError maps catalog errors to responses.
func (h *Handler) storeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		h.Error(w, http.StatusNotFound, "Not found")
	case errors.Is(err, store.ErrInvalid):
		h.Error(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error().Err(err).Str("path", r.URL.Path).Msg("catalog operation failed")
		h.Error(w, http.StatusInternalServerError, "catalog unavailable")
	}
}
