package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// idleTimeout is how long a client's bucket survives without requests.
const idleTimeout = 10 * time.Minute

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimitMiddleware keeps one token bucket per client IP. Buckets idle
// for longer than idleTimeout are dropped on a later request.
type RateLimitMiddleware struct {
	clients   map[string]*client
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

// NewRateLimitMiddleware allows maxPerMinute requests per client IP, with
// the full minute's allowance available as burst.
func NewRateLimitMiddleware(maxPerMinute int) *RateLimitMiddleware {
	if maxPerMinute <= 0 {
		maxPerMinute = 100
	}
	return &RateLimitMiddleware{
		clients:   make(map[string]*client),
		limit:     rate.Every(time.Minute / time.Duration(maxPerMinute)),
		burst:     maxPerMinute,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (m *RateLimitMiddleware) limiter(ip string) *rate.Limiter {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if now.Sub(m.lastSweep) >= idleTimeout {
		m.sweep(now)
	}

	entry, exists := m.clients[ip]
	if !exists {
		entry = &client{limiter: rate.NewLimiter(m.limit, m.burst)}
		m.clients[ip] = entry
	}
	entry.lastSeen = now
	return entry.limiter
}

// sweep removes idle clients. Callers hold m.mu.
func (m *RateLimitMiddleware) sweep(now time.Time) {
	for ip, entry := range m.clients {
		if now.Sub(entry.lastSeen) >= idleTimeout {
			delete(m.clients, ip)
		}
	}
	m.lastSweep = now
}

// RateLimit rejects requests over the per-IP allowance with 429
func (m *RateLimitMiddleware) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !m.limiter(ip).Allow() {
			log.WithField("ip", ip).Warn("Rate limit exceeded")
			abort(c, http.StatusTooManyRequests, "Rate limit exceeded")
			return
		}
		c.Next()
	}
}
