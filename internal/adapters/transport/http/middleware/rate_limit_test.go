package middleware

import (
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func limitedRouter(t *testing.T, limit, burst, cacheSize int, ttl time.Duration) (*gin.Engine, *IPRateLimiter) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	l := NewIPRateLimiter(limit, burst, cacheSize, ttl)
	t.Cleanup(l.Stop)
	r := gin.New()
	r.Use(l.Handler())
	r.GET("/", func(c *gin.Context) { c.String(200, "ok") })
	return r, l
}

func doReq(r *gin.Engine, addr string) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = addr
	r.ServeHTTP(w, req)
	return w.Code
}

func TestIPRateLimiter_Basic(t *testing.T) {
	r, _ := limitedRouter(t, 1, 1, 100, time.Hour)

	if code := doReq(r, "1.2.3.4:12345"); code != 200 {
		t.Fatalf("want 200, got %d", code)
	}
	if code := doReq(r, "1.2.3.4:12345"); code != 429 {
		t.Fatalf("want 429, got %d", code)
	}
}

func TestIPRateLimiter_DifferentHosts(t *testing.T) {
	r, _ := limitedRouter(t, 1, 1, 100, time.Hour)

	if code := doReq(r, "10.0.0.1:1111"); code != 200 {
		t.Fatalf("host A first request must pass, got %d", code)
	}
	if code := doReq(r, "10.0.0.2:2222"); code != 200 {
		t.Fatalf("host B first request must pass independently, got %d", code)
	}
}

func TestIPRateLimiter_EvictsIdleVisitors(t *testing.T) {
	l := NewIPRateLimiter(1, 1, 100, time.Hour)
	defer l.Stop()

	l.allow("10.0.0.1")
	l.allow("10.0.0.2")
	if l.visitors.Len() != 2 {
		t.Fatalf("want 2 tracked visitors, got %d", l.visitors.Len())
	}

	l.evictIdle(time.Now().Add(2 * time.Hour))
	if l.visitors.Len() != 0 {
		t.Fatalf("idle visitors must be evicted, %d remain", l.visitors.Len())
	}
}

func TestIPRateLimiter_ConcurrentRequests(t *testing.T) {
	l := NewIPRateLimiter(1000, 1000, 100, time.Millisecond)
	defer l.Stop()

	// hammer a single host while the janitor runs so the race detector
	// can watch the last-seen field
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				l.allow("1.2.3.4")
			}
		}()
	}
	wg.Wait()
}

func TestIPRateLimiter_StopIsNonBlocking(t *testing.T) {
	l := NewIPRateLimiter(1, 1, 100, time.Millisecond)

	done := make(chan struct{})
	go func() {
		l.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}

	if !l.allow("10.0.0.1") {
		t.Fatal("limiter must keep serving after Stop")
	}
}
