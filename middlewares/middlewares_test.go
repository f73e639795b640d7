package middlewares

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"gotest.tools/v3/assert"
)

func TestRateLimiterAllowsUpToLimitPerWindow(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute, time.Hour)
	defer rl.Stop()

	now := time.Unix(1700000000, 0)
	rl.now = func() time.Time { return now }

	assert.Assert(t, rl.Allow("10.0.0.1"))
	assert.Assert(t, rl.Allow("10.0.0.1"))
	assert.Assert(t, !rl.Allow("10.0.0.1"))
	assert.Assert(t, rl.Allow("10.0.0.2"))

	now = now.Add(time.Minute)
	assert.Assert(t, rl.Allow("10.0.0.1"))
}

func TestRateLimiterConcurrentRolloverKeepsLimit(t *testing.T) {
	const limit = 5
	rl := NewRateLimiter(limit, time.Minute, time.Hour)
	defer rl.Stop()

	start := time.Unix(1700000000, 0)
	rl.now = func() time.Time { return start }
	for i := 0; i < limit; i++ {
		assert.Assert(t, rl.Allow("10.0.0.1"))
	}

	later := start.Add(2 * time.Minute)
	rl.now = func() time.Time { return later }

	var allowed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if rl.Allow("10.0.0.1") {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, allowed.Load(), int32(limit))
}

func TestRateLimiterMiddlewareRejects(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute, time.Hour)
	defer rl.Stop()

	handler := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusFound)
	}))

	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/create", nil)
		req.RemoteAddr = "192.0.2.10:51234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, send(), http.StatusFound)
	assert.Equal(t, send(), http.StatusTooManyRequests)
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.10:51234"
	assert.Equal(t, getClientIP(req), "192.0.2.10")

	req.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")
	assert.Equal(t, getClientIP(req), "203.0.113.5")

	req.Header.Set("X-Forwarded-For", "garbage")
	assert.Equal(t, getClientIP(req), "192.0.2.10")
}

func TestSecureHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecureHeaders(http.NotFoundHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, rec.Header().Get("X-Content-Type-Options"), "nosniff")
	assert.Equal(t, rec.Header().Get("X-Frame-Options"), "deny")
}

func TestHttpErrorHidesCause(t *testing.T) {
	rec := httptest.NewRecorder()
	HttpError(rec, http.StatusInternalServerError, errors.New("mongo: no reachable servers"))

	assert.Equal(t, rec.Code, http.StatusInternalServerError)
	assert.Assert(t, !strings.Contains(rec.Body.String(), "mongo"))
	assert.Equal(t, strings.TrimSpace(rec.Body.String()), "Internal Server Error")
}

func TestRespondHTML(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondHTML(rec, []byte("<p>hi</p>"), http.StatusOK)

	assert.Equal(t, rec.Code, http.StatusOK)
	assert.Equal(t, rec.Header().Get("Content-Type"), "text/html; charset=utf-8")
	assert.Equal(t, rec.Body.String(), "<p>hi</p>")
}

func TestMetricsMiddlewareLabelsByRouteTemplate(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	router := mux.NewRouter()
	router.Use(metrics.Middleware)
	router.HandleFunc("/uploads/{name}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods(http.MethodGet)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uploads/missing.png", nil))

	assert.Equal(t, rec.Code, http.StatusNotFound)
	count := testutil.ToFloat64(metrics.requests.WithLabelValues("/uploads/{name}", http.MethodGet, "404"))
	assert.Equal(t, count, float64(1))
}

func TestLoggingMiddlewarePassesThrough(t *testing.T) {
	handler := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, rec.Code, http.StatusTeapot)
}
