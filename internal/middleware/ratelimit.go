package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/ReviveFitness/RF-Backend/internal/apperr"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"
)

// LoginLimiter throttles login attempts per client IP.
type LoginLimiter struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	clients   map[string]*clientLimiter
	idleTTL   time.Duration
	lastSweep time.Time
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLoginLimiter returns nil when perSecond is zero, which disables limiting.
func NewLoginLimiter(perSecond float64, burst int) *LoginLimiter {
	if perSecond <= 0 {
		return nil
	}
	return &LoginLimiter{
		limit:   rate.Limit(perSecond),
		burst:   burst,
		clients: make(map[string]*clientLimiter),
		idleTTL: 10 * time.Minute,
	}
}

func (l *LoginLimiter) allow(key string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) > l.idleTTL {
		for k, c := range l.clients {
			if now.Sub(c.lastSeen) > l.idleTTL {
				delete(l.clients, k)
			}
		}
		l.lastSweep = now
	}

	c, ok := l.clients[key]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

// Middleware applies the limiter. A nil limiter passes every request through.
func (l *LoginLimiter) Middleware(next http.Handler) http.Handler {
	if l == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.allow(clientIP(r), time.Now()) {
			w.Header().Set("Retry-After", "1")
			apperr.Write(w, apperr.TooManyRequests("Too many login attempts, please try again shortly"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// ProxyHeaders rewrites RemoteAddr from X-Forwarded-For / X-Real-IP when
// trusted. Untrusted requests keep the socket address.
func ProxyHeaders(trusted bool) func(http.Handler) http.Handler {
	if !trusted {
		return func(next http.Handler) http.Handler { return next }
	}
	return chimiddleware.RealIP
}
