package routes

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"simple-blog/controllers"
	"simple-blog/db"
	"simple-blog/middlewares"
	"simple-blog/storage"
)

func newTestHandler(t *testing.T, limiter func(http.Handler) http.Handler) http.Handler {
	t.Helper()

	disk, err := storage.NewDisk(t.TempDir())
	assert.NilError(t, err)
	renderer, err := controllers.NewRenderer(false)
	assert.NilError(t, err)

	return SetupRoutes(Options{
		Store:         db.NewMemoryStore(),
		Storage:       disk,
		Renderer:      renderer,
		Registry:      prometheus.NewRegistry(),
		SubmitLimiter: limiter,
		Now:           func() time.Time { return time.UnixMilli(42) },
	})
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func createRequest(t *testing.T, title string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	assert.NilError(t, mw.WriteField("title", title))
	assert.NilError(t, mw.WriteField("content", "content"))
	assert.NilError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/create", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.RemoteAddr = "198.51.100.7:40000"
	return req
}

func TestRoutesServePages(t *testing.T) {
	h := newTestHandler(t, nil)

	rec := serve(h, createRequest(t, "Routed"))
	assert.Equal(t, rec.Code, http.StatusFound)

	list := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, list.Code, http.StatusOK)
	assert.Check(t, is.Contains(list.Body.String(), "<h2>Routed</h2>"))
	assert.Equal(t, list.Header().Get("X-Content-Type-Options"), "nosniff")

	form := serve(h, httptest.NewRequest(http.MethodGet, "/create", nil))
	assert.Equal(t, form.Code, http.StatusOK)
}

func TestHealthAndMetrics(t *testing.T) {
	h := newTestHandler(t, nil)

	health := serve(h, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, health.Code, http.StatusOK)
	assert.Equal(t, health.Body.String(), "ok")

	serve(h, httptest.NewRequest(http.MethodGet, "/", nil))

	metrics := serve(h, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, metrics.Code, http.StatusOK)
	assert.Check(t, is.Contains(metrics.Body.String(), `blog_http_requests_total{code="200",method="GET",route="/"} 1`))
}

func TestUnknownRouteIsNotFound(t *testing.T) {
	h := newTestHandler(t, nil)

	assert.Equal(t, serve(h, httptest.NewRequest(http.MethodGet, "/nope", nil)).Code, http.StatusNotFound)
	assert.Equal(t, serve(h, httptest.NewRequest(http.MethodGet, "/uploads/", nil)).Code, http.StatusNotFound)
}

func TestSubmitLimiterAppliesToCreateOnly(t *testing.T) {
	rl := middlewares.NewRateLimiter(1, time.Minute, time.Hour)
	defer rl.Stop()
	h := newTestHandler(t, rl.Limit)

	assert.Equal(t, serve(h, createRequest(t, "one")).Code, http.StatusFound)
	assert.Equal(t, serve(h, createRequest(t, "two")).Code, http.StatusTooManyRequests)

	list := httptest.NewRequest(http.MethodGet, "/", nil)
	list.RemoteAddr = "198.51.100.7:40000"
	assert.Equal(t, serve(h, list).Code, http.StatusOK)
}
