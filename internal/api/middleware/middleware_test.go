package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/vaarthai/vithai/internal/crypto"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetClaimsFromContext(r.Context()) == nil {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAdmin(t *testing.T) {
	issuer := crypto.NewTokenIssuer("secret", time.Hour)
	token, err := issuer.Issue()
	require.NoError(t, err)

	h := NewAuthMiddleware(issuer, zerolog.Nop()).RequireAdmin(okHandler())

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{name: "missing", header: "", status: http.StatusUnauthorized, body: "Unauthorized"},
		{name: "wrong scheme", header: "Basic " + token, status: http.StatusUnauthorized, body: "Unauthorized"},
		{name: "bad token", header: "Bearer nope", status: http.StatusUnauthorized, body: "Invalid token"},
		{name: "valid", header: "Bearer " + token, status: http.StatusOK},
		{name: "lowercase scheme", header: "bearer " + token, status: http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/messages", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.Equal(t, tc.status, rec.Code)
			if tc.body != "" {
				require.JSONEq(t, `{"error":"`+tc.body+`"}`, rec.Body.String())
			}
		})
	}
}

func TestLoginLimiter(t *testing.T) {
	h := NewLoginLimiter(2, zerolog.Nop()).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusOK, do("10.0.0.1:1111").Code)
	require.Equal(t, http.StatusOK, do("10.0.0.1:2222").Code)
	limited := do("10.0.0.1:3333")
	require.Equal(t, http.StatusTooManyRequests, limited.Code)
	require.Equal(t, "31", limited.Header().Get("Retry-After"))

	require.Equal(t, http.StatusOK, do("10.0.0.2:1111").Code, "other clients are unaffected")
}

func TestLimiterPoolDropsIdleClients(t *testing.T) {
	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	pool := &limiterPool{limit: 1, burst: 1, idle: time.Minute, now: func() time.Time { return now }}

	first := pool.get("10.0.0.1")
	pool.get("10.0.0.2")
	require.Len(t, pool.m, 2)

	now = now.Add(30 * time.Second)
	require.Same(t, first, pool.get("10.0.0.1"), "recent clients keep their bucket")

	now = now.Add(45 * time.Second)
	pool.get("10.0.0.3")
	require.Len(t, pool.m, 2, "10.0.0.2 was idle for a full minute")
	require.Contains(t, pool.m, "10.0.0.1")
	require.NotContains(t, pool.m, "10.0.0.2")

	now = now.Add(2 * time.Minute)
	pool.get("10.0.0.4")
	require.Len(t, pool.m, 1)
}

func TestNormalizePath(t *testing.T) {
	require.Equal(t, "/api/messages/:id", normalizePath("/api/messages/01HX"))
	require.Equal(t, "/api/messages", normalizePath("/api/messages"))
	require.Equal(t, "/message/:id", normalizePath("/message/1-1"))
	require.Equal(t, "/static", normalizePath("/assets/index-abc.js"))
	require.Equal(t, "/health", normalizePath("/health"))
}

func TestRequireJSON(t *testing.T) {
	h := RequireJSON(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader("password=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestSecurityHeaders(t *testing.T) {
	h := SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/messages", nil))
	require.Equal(t, "default-src 'none'", rec.Header().Get("Content-Security-Policy"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/message/1", nil))
	require.Contains(t, rec.Header().Get("Content-Security-Policy"), "media-src 'self' https:")
}
