// Package elasticsearch implements the listing store on an Elasticsearch index.
package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/project-tktt/go-jobboard/internal/domain"
	"github.com/project-tktt/go-jobboard/internal/search"
	"github.com/project-tktt/go-jobboard/internal/store"
)

// Store searches and indexes listings in Elasticsearch
type Store struct {
	client    *elasticsearch.Client
	indexName string
}

var (
	_ search.ListingStore = (*Store)(nil)
	_ store.Indexer       = (*Store)(nil)
)

// NewStore creates a new Elasticsearch store
func NewStore(addresses []string, indexName string) (*Store, error) {
	cfg := elasticsearch.Config{
		Addresses: addresses,
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create es client: %w", err)
	}

	// Check connection
	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("es info: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("es error: %s", res.Status())
	}

	return &Store{
		client:    client,
		indexName: indexName,
	}, nil
}

// BulkIndex upserts multiple listings at once. Rejected items are logged
// and reported as a single error after the request completes.
func (s *Store) BulkIndex(ctx context.Context, listings []*domain.JobListing) error {
	if len(listings) == 0 {
		return nil
	}

	var buf bytes.Buffer

	for _, l := range listings {
		// Meta line
		meta := map[string]any{
			"index": map[string]any{
				"_index": s.indexName,
				"_id":    l.ID,
			},
		}
		metaBytes, _ := json.Marshal(meta)
		buf.Write(metaBytes)
		buf.WriteByte('\n')

		docBytes, err := json.Marshal(toDocument(l))
		if err != nil {
			return fmt.Errorf("marshal listing %s: %w", l.ID, err)
		}
		buf.Write(docBytes)
		buf.WriteByte('\n')
	}

	res, err := s.client.Bulk(bytes.NewReader(buf.Bytes()), s.client.Bulk.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("bulk request: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("bulk error: %s", res.Status())
	}

	// Parse response to check for individual errors
	var bulkRes struct {
		Errors bool `json:"errors"`
		Items  []struct {
			Index struct {
				ID     string `json:"_id"`
				Status int    `json:"status"`
				Error  struct {
					Type   string `json:"type"`
					Reason string `json:"reason"`
				} `json:"error"`
			} `json:"index"`
		} `json:"items"`
	}

	if err := json.NewDecoder(res.Body).Decode(&bulkRes); err != nil {
		return fmt.Errorf("parse bulk response: %w", err)
	}

	if !bulkRes.Errors {
		return nil
	}

	failed := 0
	for _, item := range bulkRes.Items {
		if item.Index.Status >= 400 {
			failed++
			log.Printf("bulk index error for %s: %s - %s",
				item.Index.ID, item.Index.Error.Type, item.Index.Error.Reason)
		}
	}
	return fmt.Errorf("bulk index: %d of %d listings rejected", failed, len(listings))
}

// Count returns the number of listings matching p
func (s *Store) Count(ctx context.Context, p search.Predicate) (int, error) {
	body, err := json.Marshal(map[string]any{"query": buildQuery(p)})
	if err != nil {
		return 0, fmt.Errorf("marshal count query: %w", err)
	}

	res, err := s.client.Count(
		s.client.Count.WithContext(ctx),
		s.client.Count.WithIndex(s.indexName),
		s.client.Count.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return 0, fmt.Errorf("count request: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, fmt.Errorf("count error: %s", res.Status())
	}

	var countRes struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(res.Body).Decode(&countRes); err != nil {
		return 0, fmt.Errorf("parse count response: %w", err)
	}
	return countRes.Count, nil
}

// maxResultWindow is the index.max_result_window default; from+size
// beyond it is rejected by the cluster.
const maxResultWindow = 10000

// FetchPage returns one ordered page of listings matching p. Pages that
// start past maxResultWindow are empty.
func (s *Store) FetchPage(ctx context.Context, p search.Predicate, o search.Order, offset, limit int) ([]domain.JobListing, error) {
	offset = max(offset, 0)
	if offset >= maxResultWindow || limit <= 0 {
		return []domain.JobListing{}, nil
	}
	limit = min(limit, maxResultWindow-offset)

	body, err := json.Marshal(searchBody(p, o, offset, limit))
	if err != nil {
		return nil, fmt.Errorf("marshal search query: %w", err)
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.indexName),
		s.client.Search.WithBody(bytes.NewReader(body)),
		s.client.Search.WithTrackTotalHits(false),
	)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search error: %s", res.Status())
	}

	var searchRes struct {
		Hits struct {
			Hits []struct {
				Source document `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&searchRes); err != nil {
		return nil, fmt.Errorf("parse search response: %w", err)
	}

	listings := make([]domain.JobListing, 0, len(searchRes.Hits.Hits))
	for _, hit := range searchRes.Hits.Hits {
		listings = append(listings, hit.Source.listing())
	}
	return listings, nil
}

// EnsureIndex creates the listings index if it doesn't exist
func (s *Store) EnsureIndex(ctx context.Context) error {
	res, err := s.client.Indices.Exists([]string{s.indexName}, s.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}
	res.Body.Close()

	if res.StatusCode == 200 {
		return nil // Index already exists
	}

	res, err = s.client.Indices.Create(
		s.indexName,
		s.client.Indices.Create.WithContext(ctx),
		s.client.Indices.Create.WithBody(bytes.NewReader([]byte(indexMapping))),
	)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("create index error: %s", res.Status())
	}

	return nil
}
