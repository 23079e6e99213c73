package dedup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Deduplicator remembers the last indexed version of each listing in Redis
type Deduplicator struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewDeduplicator creates a new Redis-based deduplicator
func NewDeduplicator(client *redis.Client, prefix string, ttl time.Duration) *Deduplicator {
	if prefix == "" {
		prefix = "dedup:listing"
	}
	if ttl == 0 {
		ttl = 24 * time.Hour * 30 // 30 days default
	}
	return &Deduplicator{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// CheckResult represents the result of checking a listing
type CheckResult int

const (
	// ResultNew - listing has never been indexed
	ResultNew CheckResult = iota
	// ResultUpdated - listing was indexed at a different version
	ResultUpdated
	// ResultUnchanged - listing was indexed at this version
	ResultUnchanged
)

func (r CheckResult) String() string {
	switch r {
	case ResultNew:
		return "new"
	case ResultUpdated:
		return "updated"
	case ResultUnchanged:
		return "unchanged"
	}
	return fmt.Sprintf("CheckResult(%d)", int(r))
}

// CheckListing reports whether the listing at updatedAt still needs indexing
func (d *Deduplicator) CheckListing(ctx context.Context, listingID string, updatedAt time.Time) (CheckResult, error) {
	stored, err := d.client.Get(ctx, d.makeKey(listingID)).Result()
	if errors.Is(err, redis.Nil) {
		return ResultNew, nil
	}
	if err != nil {
		return ResultNew, fmt.Errorf("redis get: %w", err)
	}

	if stored != version(updatedAt) {
		return ResultUpdated, nil
	}
	return ResultUnchanged, nil
}

// MarkSeen records updatedAt as the indexed version of the listing
func (d *Deduplicator) MarkSeen(ctx context.Context, listingID string, updatedAt time.Time) error {
	if err := d.client.Set(ctx, d.makeKey(listingID), version(updatedAt), d.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (d *Deduplicator) makeKey(id string) string {
	return d.prefix + ":" + id
}

func version(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
