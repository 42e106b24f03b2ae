package http

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// clientLimiterTTL is how long an idle client's limiter is kept before the
// cleanup pass drops it.
const clientLimiterTTL = 10 * time.Minute

// rateLimiter tracks one token-bucket limiter per client IP.
type rateLimiter struct {
	mu       sync.Mutex
	clients  map[string]*clientLimiter
	rps      rate.Limit
	burst    int
	lastSeen func() time.Time
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newRateLimiter(rps float64, burst int) *rateLimiter {
	return &rateLimiter{
		clients:  make(map[string]*clientLimiter),
		rps:      rate.Limit(rps),
		burst:    burst,
		lastSeen: time.Now,
	}
}

// allow reports whether the client may proceed, creating its limiter on first
// sight and opportunistically dropping idle entries.
func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.lastSeen()

	client, ok := rl.clients[clientIP]
	if !ok {
		client = &clientLimiter{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.clients[clientIP] = client
	}
	client.lastSeen = now

	for ip, entry := range rl.clients {
		if now.Sub(entry.lastSeen) > clientLimiterTTL {
			delete(rl.clients, ip)
		}
	}

	return client.limiter.Allow()
}

// RateLimitMiddleware limits requests per client IP using a token bucket.
// Applied to the webhook endpoint so a flood of forged deliveries cannot
// starve signature verification for legitimate ones.
func RateLimitMiddleware(rps float64, burst int) gin.HandlerFunc {
	limiter := newRateLimiter(rps, burst)

	return func(c *gin.Context) {
		if !limiter.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate_limited",
			})
			return
		}
		c.Next()
	}
}
