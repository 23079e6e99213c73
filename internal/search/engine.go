// Package search turns job search form values into a listing predicate,
// an ordering and a page window, and runs them against a ListingStore.
package search

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/project-tktt/go-jobboard/internal/domain"
)

// ListingStore is the persistence side of a search. Both calls receive the
// same predicate; FetchPage must return at most limit listings with their
// company filled in.
type ListingStore interface {
	Count(ctx context.Context, p Predicate) (int, error)
	FetchPage(ctx context.Context, p Predicate, o Order, offset, limit int) ([]domain.JobListing, error)
}

// ResultEnvelope is one page of search results
type ResultEnvelope struct {
	Items      []domain.JobListing `json:"items"`
	Total      int                 `json:"total"`
	TotalPages int                 `json:"totalPages"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"pageSize"`
}

// Options holds engine defaults
type Options struct {
	PageSize      int
	SalaryCeiling int
	// Now is used for the date-posted cutoff. Defaults to time.Now.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.PageSize <= 0 {
		o.PageSize = DefaultPageSize
	}
	if o.SalaryCeiling <= 0 {
		o.SalaryCeiling = DefaultSalaryCeiling
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Engine executes searches. It holds no per-request state and is safe for
// concurrent use.
type Engine struct {
	store ListingStore
	opts  Options
}

// NewEngine creates a new search engine over store
func NewEngine(store ListingStore, opts Options) *Engine {
	return &Engine{store: store, opts: opts.withDefaults()}
}

// ParseQuery decodes query parameters with the engine's defaults.
func (e *Engine) ParseQuery(q url.Values) FilterRequest {
	return ParseQuery(q, e.opts)
}

// Search counts the matching listings and fetches the requested page.
func (e *Engine) Search(ctx context.Context, req FilterRequest) (*ResultEnvelope, error) {
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = e.opts.PageSize
	}

	pred := BuildPredicate(req, e.opts.SalaryCeiling, e.opts.Now())
	order := ResolveOrder(req.SortBy, req.SortOrder)
	win := ResolveWindow(req.Page, pageSize)

	total, err := e.store.Count(ctx, pred)
	if err != nil {
		return nil, fmt.Errorf("count listings: %w", err)
	}

	items := []domain.JobListing{}
	if total > 0 && win.Offset < total {
		items, err = e.store.FetchPage(ctx, pred, order, win.Offset, win.Limit)
		if err != nil {
			return nil, fmt.Errorf("fetch listings page: %w", err)
		}
		if len(items) > win.Limit {
			items = items[:win.Limit]
		}
		if items == nil {
			items = []domain.JobListing{}
		}
	}

	return &ResultEnvelope{
		Items:      items,
		Total:      total,
		TotalPages: TotalPages(total, win.Limit),
		Page:       win.Page,
		PageSize:   win.Limit,
	}, nil
}
