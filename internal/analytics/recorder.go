package analytics

import (
	"context"
	"log"
	"sync/atomic"

	"github.com/project-tktt/go-jobboard/internal/domain"
	"github.com/project-tktt/go-jobboard/internal/search"
)

// DefaultBuffer is the event channel capacity used when none is given
const DefaultBuffer = 1024

// Event is a single term occurrence to record
type Event struct {
	Category Category
	Term     string
}

// Recorder feeds a Tracker from a single goroutine. Submitting never
// blocks: when the buffer is full the event is dropped.
type Recorder struct {
	tracker *Tracker
	events  chan Event
	dropped atomic.Int64
}

// NewRecorder creates a recorder with the given buffer size
func NewRecorder(t *Tracker, buffer int) *Recorder {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Recorder{
		tracker: t,
		events:  make(chan Event, buffer),
	}
}

// Tracker returns the tracker the recorder writes to
func (r *Recorder) Tracker() *Tracker {
	return r.tracker
}

// Submit enqueues e and reports whether it was accepted.
func (r *Recorder) Submit(e Event) bool {
	select {
	case r.events <- e:
		return true
	default:
		n := r.dropped.Add(1)
		log.Printf("analytics: buffer full, dropped %s event (%d dropped total)", e.Category, n)
		return false
	}
}

// Observe submits the search, location and company terms of a search
// request. The worldwide location is not a real place and is skipped.
func (r *Recorder) Observe(req search.FilterRequest) {
	if req.Search != "" {
		r.Submit(Event{Category: CategorySearch, Term: req.Search})
	}
	if req.Location != "" && req.Location != domain.LocationWorldwide {
		r.Submit(Event{Category: CategoryLocation, Term: req.Location})
	}
	if req.Company != "" {
		r.Submit(Event{Category: CategoryCompany, Term: req.Company})
	}
}

// Dropped returns the number of events discarded because the buffer was full
func (r *Recorder) Dropped() int64 {
	return r.dropped.Load()
}

// Run records events until ctx is cancelled
func (r *Recorder) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-r.events:
			r.record(e)
		}
	}
}

func (r *Recorder) record(e Event) {
	defer func() {
		if p := recover(); p != nil {
			log.Printf("analytics: recovered while recording %s event: %v", e.Category, p)
		}
	}()
	if err := r.tracker.Record(e.Category, e.Term); err != nil {
		log.Printf("analytics: record %s event: %v", e.Category, err)
	}
}
