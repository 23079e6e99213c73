package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/project-tktt/go-jobboard/internal/common/cleaner"
	"github.com/project-tktt/go-jobboard/internal/common/dedup"
	"github.com/project-tktt/go-jobboard/internal/common/normalizer"
	"github.com/project-tktt/go-jobboard/internal/domain"
	"github.com/project-tktt/go-jobboard/internal/search"
	"github.com/project-tktt/go-jobboard/internal/store/memory"
	"github.com/project-tktt/go-jobboard/internal/worker"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type fakeSource struct {
	batches chan []*domain.ListingEvent
}

func (f *fakeSource) ConsumeBatch(ctx context.Context, _ int) ([]*domain.ListingEvent, error) {
	select {
	case b := <-f.batches:
		return b, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(10 * time.Millisecond):
		return nil, nil
	}
}

type fakeSeen struct {
	mu   sync.Mutex
	seen map[string]time.Time
}

func newFakeSeen() *fakeSeen { return &fakeSeen{seen: map[string]time.Time{}} }

func (f *fakeSeen) CheckListing(_ context.Context, id string, updatedAt time.Time) (dedup.CheckResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.seen[id]
	switch {
	case !ok:
		return dedup.ResultNew, nil
	case v.Equal(updatedAt):
		return dedup.ResultUnchanged, nil
	}
	return dedup.ResultUpdated, nil
}

func (f *fakeSeen) MarkSeen(_ context.Context, id string, updatedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen[id] = updatedAt
	return nil
}

type failingIndexer struct{ err error }

func (f failingIndexer) BulkIndex(context.Context, []*domain.JobListing) error { return f.err }

func event(id, title string, updated time.Time) *domain.ListingEvent {
	return &domain.ListingEvent{
		ID:             id,
		Title:          title,
		Description:    "<p>About the role</p><ul><li>Go</li></ul>",
		EmploymentType: "Full-Time",
		Location:       "Germany",
		Status:         "ACTIVE",
		CreatedAt:      t0,
		UpdatedAt:      updated,
		Company:        domain.Company{ID: "c1", Name: "Acme", About: `<p>We <b>build</b></p><script>x()</script>`},
	}
}

func newWorker(idx *memory.Store, seen worker.SeenTracker, src worker.EventSource) *worker.Worker {
	return worker.NewWorker(src, normalizer.NewNormalizer(), cleaner.NewCleaner(), idx, seen, worker.Config{
		Concurrency:  2,
		BatchSize:    10,
		ErrorBackoff: time.Millisecond,
	})
}

func all(t *testing.T, s *memory.Store) []domain.JobListing {
	t.Helper()
	items, err := s.FetchPage(context.Background(), search.And(), search.Order{Field: search.SortTitle}, 0, 100)
	if err != nil {
		t.Fatal(err)
	}
	return items
}

func TestProcessBatch(t *testing.T) {
	idx := memory.New()
	w := newWorker(idx, newFakeSeen(), nil)

	events := []*domain.ListingEvent{
		event("a", "Alpha v2", t0.Add(2*time.Hour)),
		event("b", "Beta", t0),
		event("a", "Alpha v1", t0.Add(time.Hour)),
		{ID: " ", Title: "no id"},
	}
	n, err := w.ProcessBatch(context.Background(), events)
	if err != nil {
		t.Fatalf("ProcessBatch: %v", err)
	}
	if n != 2 {
		t.Fatalf("indexed %d, want 2", n)
	}

	got := all(t, idx)
	if got[0].ID != "a" || got[0].Title != "Alpha v2" {
		t.Errorf("listing a = %+v, want latest version", got[0])
	}
	if got[0].Description != "About the role\n\nGo" {
		t.Errorf("Description = %q, want plain text", got[0].Description)
	}
	if got[0].Company.About != "<p>We <b>build</b></p>" {
		t.Errorf("Company.About = %q, want sanitized HTML", got[0].Company.About)
	}
	if got[0].EmploymentType != domain.EmploymentFullTime {
		t.Errorf("EmploymentType = %q", got[0].EmploymentType)
	}
}

func TestProcessBatch_SkipsUnchangedVersions(t *testing.T) {
	idx := memory.New()
	seen := newFakeSeen()
	w := newWorker(idx, seen, nil)
	ctx := context.Background()

	if n, err := w.ProcessBatch(ctx, []*domain.ListingEvent{event("a", "Alpha", t0)}); err != nil || n != 1 {
		t.Fatalf("first batch: n=%d err=%v", n, err)
	}
	if n, err := w.ProcessBatch(ctx, []*domain.ListingEvent{event("a", "Alpha", t0)}); err != nil || n != 0 {
		t.Fatalf("replayed batch: n=%d err=%v, want 0 indexed", n, err)
	}
	if n, err := w.ProcessBatch(ctx, []*domain.ListingEvent{event("a", "Alpha edited", t0.Add(time.Minute))}); err != nil || n != 1 {
		t.Fatalf("edited batch: n=%d err=%v, want 1 indexed", n, err)
	}
	if got := all(t, idx); got[0].Title != "Alpha edited" {
		t.Errorf("title = %q", got[0].Title)
	}
}

func TestProcessBatch_IndexErrorNotMarkedSeen(t *testing.T) {
	seen := newFakeSeen()
	boom := errors.New("es down")
	w := worker.NewWorker(nil, normalizer.NewNormalizer(), cleaner.NewCleaner(), failingIndexer{boom}, seen, worker.Config{})

	if _, err := w.ProcessBatch(context.Background(), []*domain.ListingEvent{event("a", "Alpha", t0)}); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if res, _ := seen.CheckListing(context.Background(), "a", t0); res != dedup.ResultNew {
		t.Errorf("listing marked seen after failed index: %s", res)
	}
}

func TestRun_ConsumesUntilCancelled(t *testing.T) {
	idx := memory.New()
	src := &fakeSource{batches: make(chan []*domain.ListingEvent, 2)}
	src.batches <- []*domain.ListingEvent{event("a", "Alpha", t0)}
	src.batches <- []*domain.ListingEvent{event("b", "Beta", t0), event("c", "Gamma", t0)}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errc := make(chan error, 1)
	go func() { errc <- newWorker(idx, nil, src).Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for idx.Len() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("indexed %d listings, want 3", idx.Len())
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-errc:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
