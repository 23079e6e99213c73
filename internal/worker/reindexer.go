package worker

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/project-tktt/go-jobboard/internal/domain"
	"github.com/project-tktt/go-jobboard/internal/store"
	"github.com/robfig/cron/v3"
)

// Scanner streams every stored listing in id order
type Scanner interface {
	Scan(ctx context.Context, afterID string, limit int) ([]domain.JobListing, error)
}

// Reindexer periodically copies all listings from the primary store into
// a secondary index, repairing drift from failed bulk writes.
type Reindexer struct {
	cron      *cron.Cron
	source    Scanner
	target    store.Indexer
	batchSize int
	spec      string // cron spec, e.g. "@every 6h"

	mu sync.Mutex // one pass at a time
}

// NewReindexer creates a Reindexer firing on the given cron spec
func NewReindexer(source Scanner, target store.Indexer, batchSize int, spec string) *Reindexer {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &Reindexer{
		cron:      cron.New(cron.WithLogger(cron.DefaultLogger)),
		source:    source,
		target:    target,
		batchSize: batchSize,
		spec:      spec,
	}
}

// Start registers the pass and starts the scheduler
func (r *Reindexer) Start(ctx context.Context) error {
	_, err := r.cron.AddFunc(r.spec, func() {
		r.runPass(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	r.cron.Start()
	log.Printf("[reindex] Cron started, spec: %s", r.spec)
	return nil
}

// Stop shuts down the scheduler and waits for a running pass
func (r *Reindexer) Stop() {
	<-r.cron.Stop().Done()
	log.Println("[reindex] Cron stopped")
}

func (r *Reindexer) runPass(ctx context.Context) {
	if !r.mu.TryLock() {
		log.Println("[reindex] Previous pass still running, skipping")
		return
	}
	defer r.mu.Unlock()

	n, err := r.reindex(ctx)
	if err != nil {
		log.Printf("[reindex] Pass failed after %d listings: %v", n, err)
		return
	}
	log.Printf("[reindex] Pass complete, %d listings", n)
}

// Reindex copies every listing in one pass and returns how many were written
func (r *Reindexer) Reindex(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reindex(ctx)
}

func (r *Reindexer) reindex(ctx context.Context) (int, error) {
	total := 0
	afterID := ""
	for {
		page, err := r.source.Scan(ctx, afterID, r.batchSize)
		if err != nil {
			return total, fmt.Errorf("scan after %q: %w", afterID, err)
		}
		if len(page) == 0 {
			return total, nil
		}

		batch := make([]*domain.JobListing, len(page))
		for i := range page {
			batch[i] = &page[i]
		}
		if err := r.target.BulkIndex(ctx, batch); err != nil {
			return total, fmt.Errorf("bulk index: %w", err)
		}

		total += len(page)
		afterID = page[len(page)-1].ID
		if len(page) < r.batchSize {
			return total, nil
		}
	}
}
