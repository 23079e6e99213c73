// Package backend opens the listing store selected by configuration.
package backend

import (
	"context"
	"fmt"
	"log"

	"github.com/project-tktt/go-jobboard/internal/config"
	"github.com/project-tktt/go-jobboard/internal/search"
	"github.com/project-tktt/go-jobboard/internal/store"
	"github.com/project-tktt/go-jobboard/internal/store/elasticsearch"
	"github.com/project-tktt/go-jobboard/internal/store/memory"
	"github.com/project-tktt/go-jobboard/internal/store/postgres"
)

// Listings is a store that can be both searched and written
type Listings interface {
	search.ListingStore
	store.Indexer
}

// Open connects to the backend named by cfg.Store.Backend. The returned
// close function releases its connections.
func Open(ctx context.Context, cfg *config.Config) (Listings, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Store.Backend {
	case config.BackendPostgres:
		s, err := postgres.New(cfg.Postgres.ConnectionString)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres store: %w", err)
		}
		log.Println("PostgreSQL connected")
		return s, s.Close, nil

	case config.BackendElasticsearch:
		s, err := elasticsearch.NewStore(cfg.Elasticsearch.Addresses, cfg.Elasticsearch.Index)
		if err != nil {
			return nil, nil, fmt.Errorf("open elasticsearch store: %w", err)
		}
		if err := s.EnsureIndex(ctx); err != nil {
			return nil, nil, fmt.Errorf("ensure index %s: %w", cfg.Elasticsearch.Index, err)
		}
		log.Printf("Elasticsearch connected, index: %s", cfg.Elasticsearch.Index)
		return s, noop, nil

	case config.BackendMemory:
		log.Println("Using in-memory listing store")
		return memory.New(), noop, nil
	}

	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}
