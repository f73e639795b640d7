package routes

import (
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"simple-blog/controllers"
	"simple-blog/db"
	"simple-blog/middlewares"
	"simple-blog/storage"
)

// Options carries everything the router needs to serve the blog.
type Options struct {
	Store    db.PostStore
	Storage  storage.Storage
	Renderer *controllers.Renderer
	Registry *prometheus.Registry

	// Strict rejects posts with an empty title or content.
	Strict bool
	// RandomSuffix adds a random token to stored upload names.
	RandomSuffix bool
	// SubmitLimiter wraps POST /create; nil means unlimited.
	SubmitLimiter func(http.Handler) http.Handler
	// ServiceName names the server spans.
	ServiceName string
	// EnableProfiling mounts the pprof handlers under /debug/pprof/.
	EnableProfiling bool

	// Now overrides the clock used for upload names.
	Now func() time.Time
}

// SetupRoutes sets up the application routes and middlewares.
func SetupRoutes(opts Options) http.Handler {
	router := mux.NewRouter()

	registry := opts.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	metrics := middlewares.NewMetrics(registry)

	// Apply global middlewares
	router.Use(middlewares.LoggingMiddleware)
	router.Use(middlewares.SecureHeaders)
	router.Use(metrics.Middleware)

	uploads := &controllers.UploadHandler{
		Storage:      opts.Storage,
		RandomSuffix: opts.RandomSuffix,
		Now:          opts.Now,
	}
	posts := &controllers.PostHandler{
		Store:    opts.Store,
		Uploads:  uploads,
		Renderer: opts.Renderer,
		Strict:   opts.Strict,
	}

	posts.SetupPostRoutes(router, opts.SubmitLimiter)
	uploads.SetupUploadRoutes(router)
	controllers.SetupHealthRoute(router)

	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	if opts.EnableProfiling {
		// Register pprof routes to enable profiling
		router.HandleFunc("/debug/pprof/", pprof.Index)
		router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		router.HandleFunc("/debug/pprof/profile", pprof.Profile)
		router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		router.HandleFunc("/debug/pprof/trace", pprof.Trace)
		router.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)
	}

	serviceName := opts.ServiceName
	if serviceName == "" {
		serviceName = "simple-blog"
	}
	return otelhttp.NewHandler(router, serviceName)
}
