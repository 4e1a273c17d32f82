package middleware

import (
	"context"
	"encoding/json"
	"math"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/BerylCAtieno/cfo-service/internal/config"
)

// RateLimiter keeps a token bucket per client IP.
type RateLimiter struct {
	cfg config.RateLimitConfig
	now func() time.Time

	mu       sync.Mutex
	clients  map[string]*rate.Limiter
	lastSeen map[string]time.Time
}

func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		cfg:      cfg,
		now:      time.Now,
		clients:  make(map[string]*rate.Limiter),
		lastSeen: make(map[string]time.Time),
	}
}

func (rl *RateLimiter) limiter(clientID string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.lastSeen[clientID] = rl.now()
	if l, ok := rl.clients[clientID]; ok {
		return l
	}

	l := rate.NewLimiter(rate.Limit(float64(rl.cfg.RequestsPerMinute)/60.0), rl.cfg.Burst)
	rl.clients[clientID] = l
	return l
}

func (rl *RateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			l := rl.limiter(rl.clientIP(r))

			res := l.ReserveN(rl.now(), 1)
			delay := res.DelayFrom(rl.now())
			if !res.OK() || delay > 0 {
				res.CancelAt(rl.now())
				retryAfter := int(math.Ceil(delay.Seconds()))
				if retryAfter < 1 {
					retryAfter = 1
				}

				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.cfg.RequestsPerMinute))
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]any{
					"error":       "Rate limit exceeded",
					"code":        "rate_limited",
					"retry_after": retryAfter,
					"request_id":  RequestIDFromContext(r.Context()),
					"timestamp":   time.Now().UTC(),
					"path":        r.URL.Path,
				})
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.cfg.RequestsPerMinute))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(int(l.TokensAt(rl.now()))))
			next.ServeHTTP(w, r)
		})
	}
}

// Cleanup drops clients idle for more than two cleanup intervals.
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-2 * rl.cfg.CleanupInterval)
	for id, seen := range rl.lastSeen {
		if seen.Before(cutoff) {
			delete(rl.clients, id)
			delete(rl.lastSeen, id)
		}
	}
}

// StartCleanup runs Cleanup every interval until ctx is done.
func (rl *RateLimiter) StartCleanup(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(rl.cfg.CleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				rl.Cleanup()
			}
		}
	}()
}

func (rl *RateLimiter) ActiveClients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

// clientIP keys on the connection's peer address. Forwarding headers are
// only read when that peer is a trusted proxy; X-Forwarded-For is walked
// right to left and the first untrusted hop is the client.
func (rl *RateLimiter) clientIP(r *http.Request) string {
	peer := remoteHost(r)
	if !rl.trusted(peer) {
		return peer
	}

	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		hops := strings.Split(fwd, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if _, err := netip.ParseAddr(hop); err != nil {
				return peer
			}
			if !rl.trusted(hop) {
				return hop
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		if _, err := netip.ParseAddr(ip); err == nil {
			return ip
		}
	}
	return peer
}

func (rl *RateLimiter) trusted(ip string) bool {
	if len(rl.cfg.TrustedProxies) == 0 {
		return false
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range rl.cfg.TrustedProxies {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
