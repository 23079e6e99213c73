// Package store holds what the listing backends have in common.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/project-tktt/go-jobboard/internal/domain"
)

// Indexer defines the interface for listing indexing backends
type Indexer interface {
	// BulkIndex upserts multiple listings at once
	BulkIndex(ctx context.Context, listings []*domain.JobListing) error
}

// MultiIndexer writes every batch to each of its indexers in order.
// All indexers are attempted; their errors are joined.
type MultiIndexer []Indexer

// BulkIndex implements Indexer
func (m MultiIndexer) BulkIndex(ctx context.Context, listings []*domain.JobListing) error {
	var errs []error
	for i, idx := range m {
		if err := idx.BulkIndex(ctx, listings); err != nil {
			errs = append(errs, fmt.Errorf("indexer %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
