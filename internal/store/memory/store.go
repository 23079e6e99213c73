// Package memory is an in-process listing store. It evaluates search
// predicates directly and is used for tests and local development.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/project-tktt/go-jobboard/internal/domain"
	"github.com/project-tktt/go-jobboard/internal/search"
)

// Store keeps listings in a map keyed by id
type Store struct {
	mu       sync.RWMutex
	listings map[string]domain.JobListing
}

// New creates a store holding the given listings
func New(listings ...domain.JobListing) *Store {
	s := &Store{listings: make(map[string]domain.JobListing, len(listings))}
	for _, l := range listings {
		s.listings[l.ID] = clone(l)
	}
	return s
}

// BulkIndex upserts listings by id
func (s *Store) BulkIndex(_ context.Context, listings []*domain.JobListing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range listings {
		s.listings[l.ID] = clone(*l)
	}
	return nil
}

// Len returns the number of stored listings, whatever their status
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.listings)
}

// Count returns the number of listings matching p
func (s *Store) Count(ctx context.Context, p search.Predicate) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for id := range s.listings {
		l := s.listings[id]
		if p.Matches(&l) {
			n++
		}
	}
	return n, nil
}

// FetchPage returns the [offset, offset+limit) slice of the listings
// matching p ordered by o
func (s *Store) FetchPage(ctx context.Context, p search.Predicate, o search.Order, offset, limit int) ([]domain.JobListing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	matched := make([]domain.JobListing, 0)
	for id := range s.listings {
		l := s.listings[id]
		if p.Matches(&l) {
			matched = append(matched, clone(l))
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(matched, func(a, b domain.JobListing) int {
		return o.Compare(&a, &b)
	})

	offset = max(offset, 0)
	if offset >= len(matched) || limit <= 0 {
		return []domain.JobListing{}, nil
	}
	end := min(offset+limit, len(matched))
	return matched[offset:end], nil
}

func clone(l domain.JobListing) domain.JobListing {
	l.Benefits = slices.Clone(l.Benefits)
	return l
}
