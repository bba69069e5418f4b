package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vaarthai/vithai/internal/crypto"
)

type contextKey string

const ClaimsContextKey contextKey = "claims"

// TokenVerifier checks a bearer token.
type TokenVerifier interface {
	Verify(token string) (*crypto.Claims, error)
}

// AuthMiddleware guards admin endpoints with a bearer token.
type AuthMiddleware struct {
	verifier TokenVerifier
	logger   zerolog.Logger
}

// NewAuthMiddleware creates a new auth middleware.
func NewAuthMiddleware(verifier TokenVerifier, logger zerolog.Logger) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier, logger: logger}
}

// RequireAdmin rejects requests without a valid admin token.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			jsonError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		claims, err := m.verifier.Verify(token)
		if err != nil {
			m.logger.Warn().Err(err).Str("path", r.URL.Path).Msg("rejected admin token")
			jsonError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken returns the credential from "Authorization: Bearer <token>".
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func jsonError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// GetClaimsFromContext retrieves the verified token claims from the request context.
func GetClaimsFromContext(ctx context.Context) *crypto.Claims {
	claims, ok := ctx.Value(ClaimsContextKey).(*crypto.Claims)
	if !ok {
		return nil
	}
	return claims
}
