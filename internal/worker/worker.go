// Package worker applies listing change events to the search stores.
package worker

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/project-tktt/go-jobboard/internal/common/cleaner"
	"github.com/project-tktt/go-jobboard/internal/common/dedup"
	"github.com/project-tktt/go-jobboard/internal/common/normalizer"
	"github.com/project-tktt/go-jobboard/internal/domain"
	"github.com/project-tktt/go-jobboard/internal/store"
)

// EventSource yields batches of listing events. An empty batch means the
// wait timed out.
type EventSource interface {
	ConsumeBatch(ctx context.Context, maxBatch int) ([]*domain.ListingEvent, error)
}

// SeenTracker remembers which listing versions were already indexed
type SeenTracker interface {
	CheckListing(ctx context.Context, listingID string, updatedAt time.Time) (dedup.CheckResult, error)
	MarkSeen(ctx context.Context, listingID string, updatedAt time.Time) error
}

// Worker processes listing events from the queue and indexes them to storage
type Worker struct {
	source     EventSource
	normalizer *normalizer.Normalizer
	cleaner    *cleaner.Cleaner
	indexer    store.Indexer
	seen       SeenTracker

	batchSize    int
	concurrency  int
	errorBackoff time.Duration
}

// Config holds worker configuration
type Config struct {
	Concurrency int
	BatchSize   int
	// Pause after a failed consume. Defaults to one second.
	ErrorBackoff time.Duration
}

// NewWorker creates a new worker. seen may be nil to index every event.
func NewWorker(
	source EventSource,
	norm *normalizer.Normalizer,
	clean *cleaner.Cleaner,
	idx store.Indexer,
	seen SeenTracker,
	cfg Config,
) *Worker {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 5
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.ErrorBackoff <= 0 {
		cfg.ErrorBackoff = time.Second
	}

	return &Worker{
		source:       source,
		normalizer:   norm,
		cleaner:      clean,
		indexer:      idx,
		seen:         seen,
		batchSize:    cfg.BatchSize,
		concurrency:  cfg.Concurrency,
		errorBackoff: cfg.ErrorBackoff,
	}
}

// Run starts the worker pool
func (w *Worker) Run(ctx context.Context) error {
	log.Printf("Starting worker pool with %d workers", w.concurrency)

	var wg sync.WaitGroup
	errChan := make(chan error, w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			if err := w.runSingle(ctx, workerID); err != nil {
				errChan <- fmt.Errorf("worker %d: %w", workerID, err)
			}
		}(i)
	}

	// Wait for all workers or context cancellation
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		<-done
		return ctx.Err()
	case err := <-errChan:
		return err
	case <-done:
		return ctx.Err()
	}
}

func (w *Worker) runSingle(ctx context.Context, workerID int) error {
	log.Printf("Worker %d started", workerID)

	for {
		select {
		case <-ctx.Done():
			log.Printf("Worker %d stopping", workerID)
			return nil
		default:
		}

		events, err := w.source.ConsumeBatch(ctx, w.batchSize)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			log.Printf("Worker %d consume error: %v", workerID, err)
			select {
			case <-ctx.Done():
			case <-time.After(w.errorBackoff):
			}
			continue
		}

		if len(events) == 0 {
			continue // Timeout from BRPOP, try again
		}

		log.Printf("Worker %d processing %d events", workerID, len(events))

		n, err := w.ProcessBatch(ctx, events)
		if err != nil {
			log.Printf("Worker %d index error: %v", workerID, err)
		} else if n > 0 {
			log.Printf("Worker %d indexed %d listings", workerID, n)
		}
	}
}

// ProcessBatch normalizes, cleans and indexes one batch of events and
// returns the number of listings indexed. Events for a listing version
// that was already indexed are skipped.
func (w *Worker) ProcessBatch(ctx context.Context, events []*domain.ListingEvent) (int, error) {
	listings := w.prepare(ctx, events)
	if len(listings) == 0 {
		return 0, nil
	}

	if err := w.indexer.BulkIndex(ctx, listings); err != nil {
		return 0, err
	}

	if w.seen != nil {
		for _, l := range listings {
			if err := w.seen.MarkSeen(ctx, l.ID, l.UpdatedAt); err != nil {
				log.Printf("mark seen %s: %v", l.ID, err)
			}
		}
	}
	return len(listings), nil
}

func (w *Worker) prepare(ctx context.Context, events []*domain.ListingEvent) []*domain.JobListing {
	// Latest version per listing id wins within a batch
	latest := make(map[string]*domain.JobListing, len(events))
	order := make([]string, 0, len(events))

	for _, ev := range events {
		l, err := w.normalizer.Normalize(ev)
		if err != nil {
			log.Printf("Normalize error for %q: %v", ev.ID, err)
			continue
		}

		prev, ok := latest[l.ID]
		if !ok {
			order = append(order, l.ID)
		} else if l.UpdatedAt.Before(prev.UpdatedAt) {
			continue
		}
		latest[l.ID] = l
	}

	listings := make([]*domain.JobListing, 0, len(order))
	for _, id := range order {
		l := latest[id]

		if w.seen != nil {
			res, err := w.seen.CheckListing(ctx, l.ID, l.UpdatedAt)
			if err != nil {
				log.Printf("dedup check %s: %v", l.ID, err)
			} else if res == dedup.ResultUnchanged {
				continue
			}
		}

		// Clean text fields
		l.Description = w.cleaner.CleanToText(l.Description)
		l.Company.About = w.cleaner.Clean(l.Company.About)

		listings = append(listings, l)
	}
	return listings
}
