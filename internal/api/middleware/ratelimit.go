package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/vaarthai/vithai/internal/metrics"
)

// limiterPool hands out one token bucket per key. Buckets unused for idle
// are dropped; by then they have refilled, so a fresh one is equivalent.
type limiterPool struct {
	mu        sync.Mutex
	m         map[string]*poolEntry
	limit     rate.Limit
	burst     int
	idle      time.Duration
	now       func() time.Time
	lastSweep time.Time
}

type poolEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func (p *limiterPool) get(key string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.m == nil {
		p.m = make(map[string]*poolEntry)
	}

	now := p.now()
	if now.Sub(p.lastSweep) >= p.idle {
		p.sweep(now)
	}

	if e, ok := p.m[key]; ok {
		e.lastSeen = now
		return e.limiter
	}
	l := rate.NewLimiter(p.limit, p.burst)
	p.m[key] = &poolEntry{limiter: l, lastSeen: now}
	return l
}

// sweep drops idle entries. p.mu must be held.
func (p *limiterPool) sweep(now time.Time) {
	for key, e := range p.m {
		if now.Sub(e.lastSeen) >= p.idle {
			delete(p.m, key)
		}
	}
	p.lastSweep = now
}

// LoginLimiter throttles login attempts per client IP.
type LoginLimiter struct {
	pool     *limiterPool
	interval time.Duration
	logger   zerolog.Logger
}

// NewLoginLimiter allows perMinute attempts per IP, refilled evenly, with
// the whole minute's allowance available as a burst.
func NewLoginLimiter(perMinute int, logger zerolog.Logger) *LoginLimiter {
	if perMinute <= 0 {
		perMinute = 10
	}
	interval := time.Minute / time.Duration(perMinute)
	return &LoginLimiter{
		pool: &limiterPool{
			limit: rate.Every(interval),
			burst: perMinute,
			idle:  interval * time.Duration(perMinute),
			now:   time.Now,
		},
		interval: interval,
		logger:   logger,
	}
}

// Middleware rejects requests over the limit with 429.
func (l *LoginLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !l.pool.get(ip).Allow() {
			metrics.LoginAttempts.WithLabelValues("limited").Inc()
			l.logger.Warn().Str("ip", ip).Msg("login rate limit exceeded")

			w.Header().Set("Retry-After", strconv.Itoa(int(l.interval.Seconds())+1))
			jsonError(w, http.StatusTooManyRequests, "too many login attempts")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP uses RemoteAddr, which chi's RealIP has already rewritten.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
