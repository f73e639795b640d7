package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"simple-blog/configs"
	"simple-blog/controllers"
	"simple-blog/db"
	"simple-blog/middlewares"
	"simple-blog/routes"
	"simple-blog/storage"
	"simple-blog/utils"
)

func main() {
	// Load configuration
	config, err := configs.LoadConfig(os.Getenv("BLOG_CONFIG"))
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	log.Printf("Config: %s", config)

	shutdownTracing, err := utils.InitTracing(context.Background(), config.Otel.Endpoint, config.Otel.ServiceName)
	if err != nil {
		log.Fatalf("Error initializing tracing: %v", err)
	}

	store, err := db.Open(config)
	if err != nil {
		log.Fatalf("Error opening %s store: %v", config.Store.Driver, err)
	}

	uploads, err := openUploads(config)
	if err != nil {
		log.Fatalf("Error opening %s uploads: %v", config.Uploads.Driver, err)
	}

	renderer, err := controllers.NewRenderer(config.Render.EscapeHTML)
	if err != nil {
		log.Fatalf("Error parsing templates: %v", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	var submitLimiter func(http.Handler) http.Handler
	if config.HTTP.RateLimit > 0 {
		rateLimiter := middlewares.NewRateLimiter(config.HTTP.RateLimit, time.Minute, 2*time.Minute)
		defer rateLimiter.Stop()
		submitLimiter = rateLimiter.Limit
	}

	// Set up routes and middlewares
	handler := routes.SetupRoutes(routes.Options{
		Store:           store,
		Storage:         uploads,
		Renderer:        renderer,
		Registry:        registry,
		Strict:          config.Validation.Strict,
		RandomSuffix:    config.Uploads.RandomSuffix,
		SubmitLimiter:   submitLimiter,
		ServiceName:     config.Otel.ServiceName,
		EnableProfiling: config.HTTP.Pprof,
	})

	srv := &http.Server{
		Addr:           config.HTTP.Addr,
		Handler:        handler,
		ReadTimeout:    config.HTTP.ReadTimeout,
		WriteTimeout:   config.HTTP.WriteTimeout,
		MaxHeaderBytes: 7500,
		IdleTimeout:    config.HTTP.IdleTimeout,
	}

	// Use a wait group to manage graceful shutdown
	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe error: %v", err)
		}
	}()
	log.Printf("Server running on %s", config.HTTP.Addr)

	// Wait for interrupt signal to gracefully shut down the server
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), config.HTTP.ShutdownTimeout)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown failed: %+v", err)
	}
	wg.Wait()

	if err := store.Close(shutdownCtx); err != nil {
		log.Printf("Error closing store: %v", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Printf("Error flushing traces: %v", err)
	}
	log.Println("Server exited gracefully")
}

func openUploads(config *configs.Config) (storage.Storage, error) {
	if config.Uploads.Driver == configs.UploadsMinio {
		m, err := storage.NewMinio(storage.MinioConfig{
			Endpoint:  config.Minio.Endpoint,
			AccessKey: config.Minio.AccessKey,
			SecretKey: config.Minio.SecretKey,
			UseSSL:    config.Minio.UseSSL,
			Bucket:    config.Minio.Bucket,
		})
		if err != nil {
			return nil, err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := m.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return m, nil
	}

	disk, err := storage.NewDisk(config.Uploads.Dir)
	if err != nil {
		return nil, err
	}
	return disk, nil
}
