package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/project-tktt/go-jobboard/internal/analytics"
	"github.com/project-tktt/go-jobboard/internal/api"
	"github.com/project-tktt/go-jobboard/internal/backend"
	"github.com/project-tktt/go-jobboard/internal/config"
	"github.com/project-tktt/go-jobboard/internal/search"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting Job Search API")

	// Optional .env for local development
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: failed to load .env: %v", err)
	}

	// Load configuration
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	listings, closeStore, err := backend.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("Store connection failed: %v", err)
	}
	defer closeStore()

	engine := search.NewEngine(listings, search.Options{
		PageSize:      cfg.Search.PageSize,
		SalaryCeiling: cfg.Search.SalaryCeiling,
	})

	// Analytics recorder runs as the single writer of the tracker
	recorder := analytics.NewRecorder(analytics.NewTracker(), cfg.Analytics.Buffer)
	go recorder.Run(ctx)

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           api.NewRouter(api.NewHandler(engine, recorder), cfg.HTTP.AllowOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server listening on %s", cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Println("Shutdown signal received, stopping...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
	log.Printf("Graceful shutdown complete (%d analytics events dropped)", recorder.Dropped())
}
