package middleware

import (
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter *rate.Limiter
	// last is the UnixNano of the most recent request, written and read
	// concurrently by request goroutines and the janitor
	last atomic.Int64
}

// IPRateLimiter caps request throughput per client address, keeping
// limiters in an LRU so the map cannot grow unbounded. Idle entries are
// evicted by a background janitor; call Stop when tearing the server down.
type IPRateLimiter struct {
	visitors *lru.Cache[string, *visitor]
	limit    rate.Limit
	burst    int
	ttl      time.Duration
	done     chan struct{}
}

func NewIPRateLimiter(limit, burst, cacheSize int, ttl time.Duration) *IPRateLimiter {
	visitors, _ := lru.New[string, *visitor](cacheSize)
	l := &IPRateLimiter{
		visitors: visitors,
		limit:    rate.Limit(limit),
		burst:    burst,
		ttl:      ttl,
		done:     make(chan struct{}),
	}
	go l.janitor()
	return l
}

// Stop terminates the janitor goroutine. Safe to call once.
func (l *IPRateLimiter) Stop() {
	close(l.done)
}

func (l *IPRateLimiter) janitor() {
	ticker := time.NewTicker(l.ttl)
	defer ticker.Stop()
	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
			l.evictIdle(time.Now())
		}
	}
}

func (l *IPRateLimiter) evictIdle(now time.Time) {
	cutoff := now.Add(-l.ttl).UnixNano()
	for _, key := range l.visitors.Keys() {
		if v, ok := l.visitors.Peek(key); ok && v.last.Load() < cutoff {
			l.visitors.Remove(key)
		}
	}
}

func (l *IPRateLimiter) allow(host string) bool {
	v, ok := l.visitors.Get(host)
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		if prev, found, _ := l.visitors.PeekOrAdd(host, v); found {
			v = prev
		}
	}
	v.last.Store(time.Now().UnixNano())
	return v.limiter.Allow()
}

func (l *IPRateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
		if err != nil {
			host = c.Request.RemoteAddr
		}

		if !l.allow(host) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
