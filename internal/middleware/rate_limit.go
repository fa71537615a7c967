package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"quadramall/apienvelope/internal/common"
	"quadramall/apienvelope/pkg/envelope"
)

// limiterIdleTTL is how long a client's bucket survives without requests.
const limiterIdleTTL = 10 * time.Minute

// RateLimiter hands out one token bucket per client IP. Buckets of idle
// clients expire so the set stays bounded by recent traffic.
type RateLimiter struct {
	mu          sync.Mutex
	limiters    *cache.Cache
	rps         rate.Limit
	burst       int
	whitelisted map[string]bool
}

func NewRateLimiter(rps float64, burst int, whitelist ...string) *RateLimiter {
	return newRateLimiter(rps, burst, limiterIdleTTL, whitelist...)
}

func newRateLimiter(rps float64, burst int, idleTTL time.Duration, whitelist ...string) *RateLimiter {
	wl := make(map[string]bool, len(whitelist))
	for _, ip := range whitelist {
		wl[ip] = true
	}
	return &RateLimiter{
		limiters:    cache.New(idleTTL, idleTTL),
		rps:         rate.Limit(rps),
		burst:       burst,
		whitelisted: wl,
	}
}

func (rl *RateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	var limiter *rate.Limiter
	if v, found := rl.limiters.Get(ip); found {
		limiter = v.(*rate.Limiter)
	} else {
		limiter = rate.NewLimiter(rl.rps, rl.burst)
	}
	// Re-set on every hit so the expiry slides with activity.
	rl.limiters.Set(ip, limiter, cache.DefaultExpiration)
	return limiter
}

// Middleware rejects over-limit callers with a 429 fail envelope.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if rl.whitelisted[ip] {
			next.ServeHTTP(w, r)
			return
		}

		if !rl.getLimiter(ip).Allow() {
			w.Header().Set("Retry-After", "1")
			common.RespondError(w, r, envelope.TooManyRequests())
			return
		}

		next.ServeHTTP(w, r)
	})
}
