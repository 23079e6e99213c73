package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/project-tktt/go-jobboard/internal/common/cleaner"
	"github.com/project-tktt/go-jobboard/internal/common/dedup"
	"github.com/project-tktt/go-jobboard/internal/common/normalizer"
	"github.com/project-tktt/go-jobboard/internal/config"
	"github.com/project-tktt/go-jobboard/internal/queue"
	"github.com/project-tktt/go-jobboard/internal/store"
	"github.com/project-tktt/go-jobboard/internal/store/elasticsearch"
	"github.com/project-tktt/go-jobboard/internal/store/postgres"
	"github.com/project-tktt/go-jobboard/internal/worker"
	"github.com/redis/go-redis/v9"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting Listing Sync Worker")

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: failed to load .env: %v", err)
	}

	// Load configuration
	cfg := config.Load()

	// Initialize Redis client
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Test Redis connection
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("Redis connection failed: %v", err)
	}
	log.Println("Redis connected")

	// PostgreSQL is the primary store
	pgStore, err := postgres.New(cfg.Postgres.ConnectionString)
	if err != nil {
		log.Fatalf("PostgreSQL connection failed: %v", err)
	}
	defer pgStore.Close()
	log.Println("PostgreSQL connected")

	// Elasticsearch is the secondary search index
	esStore, err := elasticsearch.NewStore(cfg.Elasticsearch.Addresses, cfg.Elasticsearch.Index)
	if err != nil {
		log.Fatalf("Elasticsearch connection failed: %v", err)
	}
	log.Printf("Elasticsearch connected, index: %s", cfg.Elasticsearch.Index)

	// Ensure index exists with proper mapping
	if err := esStore.EnsureIndex(ctx); err != nil {
		log.Printf("Warning: Failed to ensure index: %v", err)
	}

	// Initialize Components
	consumer := queue.NewConsumer(rdb, cfg.Redis.ListingQueue, 5*time.Second)
	seen := dedup.NewDeduplicator(rdb, "", 0)
	indexer := store.MultiIndexer{pgStore, esStore}

	reindexer := worker.NewReindexer(pgStore, esStore, cfg.Worker.BatchSize, cfg.Worker.ReindexInterval)
	if err := reindexer.Start(ctx); err != nil {
		log.Fatalf("Reindex scheduler failed: %v", err)
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var wg sync.WaitGroup

	// Start worker pool (queue -> normalize -> clean -> Postgres + Elasticsearch)
	wg.Add(1)
	go func() {
		defer wg.Done()
		w := worker.NewWorker(consumer, normalizer.NewNormalizer(), cleaner.NewCleaner(), indexer, seen, worker.Config{
			Concurrency: cfg.Worker.Concurrency,
			BatchSize:   cfg.Worker.BatchSize,
		})
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("Worker error: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Println("Shutdown signal received, stopping...")
	cancel()
	reindexer.Stop()

	// Wait for goroutines to finish
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Println("Graceful shutdown complete")
	case <-time.After(30 * time.Second):
		log.Println("Shutdown timeout, forcing exit")
	}
}
