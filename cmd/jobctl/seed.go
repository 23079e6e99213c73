package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/project-tktt/go-jobboard/internal/domain"
	"github.com/project-tktt/go-jobboard/internal/idgen"
	"github.com/project-tktt/go-jobboard/internal/queue"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Publish listing events from a JSON file to the sync queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")

		events, err := readEvents(file, time.Now().UTC())
		if err != nil {
			return err
		}

		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		pub := queue.NewPublisher(rdb, cfg.Redis.ListingQueue)
		if len(events) == 1 {
			err = pub.Publish(cmd.Context(), events[0])
		} else {
			err = pub.PublishBatch(cmd.Context(), events)
		}
		if err != nil {
			return fmt.Errorf("publish events: %w", err)
		}

		n, err := pub.QueueLength(cmd.Context())
		if err != nil {
			return fmt.Errorf("queue length: %w", err)
		}
		fmt.Printf("Published %d events to %s (queue length %d)\n", len(events), cfg.Redis.ListingQueue, n)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringP("file", "f", "", "JSON file holding an array of listing events")
	_ = seedCmd.MarkFlagRequired("file")
}

// readEvents loads events from path, assigning ids and emit times that
// are missing.
func readEvents(path string, now time.Time) ([]*domain.ListingEvent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var events []*domain.ListingEvent
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	for _, ev := range events {
		if ev.ID == "" {
			if ev.ID, err = idgen.NewListingID(); err != nil {
				return nil, err
			}
		}
		if ev.EmittedAt.IsZero() {
			ev.EmittedAt = now
		}
	}
	return events, nil
}
