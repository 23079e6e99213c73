package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestReadEvents(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	emitted := "2026-03-01T08:00:00Z"
	path := filepath.Join(t.TempDir(), "listings.json")
	body := `[
		{"id": "job-1", "jobTitle": "Backend Engineer", "emittedAt": "` + emitted + `"},
		{"jobTitle": "Designer", "company": {"name": "Acme"}}
	]`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	events, err := readEvents(path, now)
	if err != nil {
		t.Fatalf("readEvents: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].ID != "job-1" || events[0].EmittedAt.Format(time.RFC3339) != emitted {
		t.Errorf("first event = %+v", events[0])
	}
	if !strings.HasPrefix(events[1].ID, "job_") || !events[1].EmittedAt.Equal(now) {
		t.Errorf("second event id=%q emittedAt=%v, want generated id and now", events[1].ID, events[1].EmittedAt)
	}
}

func TestReadEvents_Errors(t *testing.T) {
	if _, err := readEvents(filepath.Join(t.TempDir(), "missing.json"), time.Now()); err == nil {
		t.Error("missing file accepted")
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"not": "an array"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := readEvents(path, time.Now()); err == nil {
		t.Error("non-array JSON accepted")
	}
}
