package dedup_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/project-tktt/go-jobboard/internal/common/dedup"
	"github.com/redis/go-redis/v9"
)

func TestCheckListing_Lifecycle(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	t.Cleanup(func() { client.Close() })
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("redis unavailable: %v", err)
	}

	const prefix = "test:dedup"
	client.Del(ctx, prefix+":job-1")
	t.Cleanup(func() { client.Del(context.Background(), prefix+":job-1") })

	d := dedup.NewDeduplicator(client, prefix, time.Minute)
	v1 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	v2 := v1.Add(time.Hour)

	steps := []struct {
		mark  bool
		check time.Time
		want  dedup.CheckResult
	}{
		{false, v1, dedup.ResultNew},
		{true, v1, dedup.ResultUnchanged},
		{false, v2, dedup.ResultUpdated},
		{false, v1.In(time.FixedZone("CET", 3600)), dedup.ResultUnchanged},
	}
	for i, s := range steps {
		if s.mark {
			if err := d.MarkSeen(ctx, "job-1", v1); err != nil {
				t.Fatalf("step %d MarkSeen: %v", i, err)
			}
		}
		got, err := d.CheckListing(ctx, "job-1", s.check)
		if err != nil {
			t.Fatalf("step %d CheckListing: %v", i, err)
		}
		if got != s.want {
			t.Errorf("step %d: got %s, want %s", i, got, s.want)
		}
	}
}
