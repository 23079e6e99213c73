package worker_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/project-tktt/go-jobboard/internal/domain"
	"github.com/project-tktt/go-jobboard/internal/store/memory"
	"github.com/project-tktt/go-jobboard/internal/worker"
)

type sliceScanner struct {
	listings []domain.JobListing // sorted by id
	calls    int
	err      error
}

func (s *sliceScanner) Scan(_ context.Context, afterID string, limit int) ([]domain.JobListing, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	var out []domain.JobListing
	for _, l := range s.listings {
		if l.ID > afterID && len(out) < limit {
			out = append(out, l)
		}
	}
	return out, nil
}

func scannerWith(n int) *sliceScanner {
	s := &sliceScanner{}
	for i := 0; i < n; i++ {
		s.listings = append(s.listings, domain.JobListing{
			ID:     fmt.Sprintf("job-%02d", i),
			Status: domain.StatusActive,
		})
	}
	return s
}

func TestReindex_CopiesEveryListing(t *testing.T) {
	for _, tc := range []struct {
		listings, batch, wantCalls int
	}{
		{5, 2, 3},
		{4, 2, 3},
		{0, 2, 1},
		{3, 10, 1},
	} {
		src := scannerWith(tc.listings)
		dst := memory.New()
		r := worker.NewReindexer(src, dst, tc.batch, "@every 1h")

		n, err := r.Reindex(context.Background())
		if err != nil {
			t.Fatalf("Reindex(%d/%d): %v", tc.listings, tc.batch, err)
		}
		if n != tc.listings || dst.Len() != tc.listings {
			t.Errorf("Reindex(%d/%d) wrote %d, target has %d", tc.listings, tc.batch, n, dst.Len())
		}
		if src.calls != tc.wantCalls {
			t.Errorf("Reindex(%d/%d) made %d scans, want %d", tc.listings, tc.batch, src.calls, tc.wantCalls)
		}
	}
}

func TestReindex_ScanError(t *testing.T) {
	boom := errors.New("db gone")
	r := worker.NewReindexer(&sliceScanner{err: boom}, memory.New(), 10, "@every 1h")
	if _, err := r.Reindex(context.Background()); !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
}

func TestReindexer_StartStop(t *testing.T) {
	r := worker.NewReindexer(scannerWith(1), memory.New(), 10, "@every 1h")
	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	r.Stop()

	bad := worker.NewReindexer(scannerWith(1), memory.New(), 10, "every tuesday")
	if err := bad.Start(context.Background()); err == nil {
		t.Error("Start accepted an invalid cron spec")
	}
}
