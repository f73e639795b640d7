package middlewares

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// RateLimiter allows each client a fixed number of requests per window.
type RateLimiter struct {
	limits     sync.Map
	limit      int32
	window     time.Duration
	cleanupInt time.Duration
	now        func() time.Time
	stop       chan struct{}
	stopOnce   sync.Once
}

// clientData is one client's window. The counter and window start change
// together under mu.
type clientData struct {
	mu          sync.Mutex
	requests    int32
	windowStart int64
}

func (d *clientData) started() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.windowStart
}

func NewRateLimiter(limit int, window time.Duration, cleanupInt time.Duration) *RateLimiter {
	rl := &RateLimiter{
		limit:      int32(limit),
		window:     window,
		cleanupInt: cleanupInt,
		now:        time.Now,
		stop:       make(chan struct{}),
	}

	go rl.cleanup()

	return rl
}

// Stop ends the cleanup loop.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.cleanupInt)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			cutoff := rl.now().Add(-rl.window).UnixNano()
			rl.limits.Range(func(key, value interface{}) bool {
				data := value.(*clientData)
				if data.started() < cutoff {
					rl.limits.Delete(key)
				}
				return true
			})
		}
	}
}

func getClientIP(r *http.Request) string {
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		ip := strings.TrimSpace(strings.Split(xff, ",")[0])
		if parsedIP := net.ParseIP(ip); parsedIP != nil {
			return ip
		}
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	if parsedIP := net.ParseIP(ip); parsedIP != nil {
		return ip
	}
	return ""
}

// Allow records one request for clientIP and reports whether it is within
// the limit.
func (rl *RateLimiter) Allow(clientIP string) bool {
	now := rl.now().UnixNano()

	value, _ := rl.limits.LoadOrStore(clientIP, &clientData{windowStart: now})
	data := value.(*clientData)

	data.mu.Lock()
	defer data.mu.Unlock()

	if now-data.windowStart >= int64(rl.window) {
		data.windowStart = now
		data.requests = 0
	}
	if data.requests >= rl.limit {
		return false
	}
	data.requests++
	return true
}

func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(getClientIP(r)) {
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}
