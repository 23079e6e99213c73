// Package analytics keeps ranked in-process tallies of searched terms,
// locations and companies for popularity lists and suggestions.
//
// State is process-local and lost on restart.
package analytics

import (
	"errors"
	"slices"
	"strings"
	"sync"
	"time"
)

// Category selects one of the tracked term lists
type Category string

const (
	CategorySearch   Category = "search"
	CategoryLocation Category = "location"
	CategoryCompany  Category = "company"
)

// ErrUnknownCategory is returned for a category the tracker does not keep
var ErrUnknownCategory = errors.New("unknown analytics category")

// Retention limits per category
var limits = map[Category]int{
	CategorySearch:   100,
	CategoryLocation: 50,
	CategoryCompany:  50,
}

// ParseCategory validates s as a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := limits[c]; !ok {
		return "", ErrUnknownCategory
	}
	return c, nil
}

// Entry is one tallied term
type Entry struct {
	Term     string    `json:"term"`
	Count    int       `json:"count"`
	LastSeen time.Time `json:"lastSeen"`
}

// ranking is the entry list of one category, kept sorted by count
// descending.
type ranking struct {
	mu      sync.Mutex
	max     int
	entries []Entry
}

// Tracker holds one ranking per category. It is safe for concurrent use.
type Tracker struct {
	rankings map[Category]*ranking
	now      func() time.Time
}

// NewTracker creates an empty tracker
func NewTracker() *Tracker {
	t := &Tracker{
		rankings: make(map[Category]*ranking, len(limits)),
		now:      time.Now,
	}
	for c, limit := range limits {
		t.rankings[c] = &ranking{max: limit}
	}
	return t
}

func (t *Tracker) ranking(c Category) (*ranking, error) {
	r, ok := t.rankings[c]
	if !ok {
		return nil, ErrUnknownCategory
	}
	return r, nil
}

// Record counts one occurrence of term. Matching is case-insensitive and
// the first-seen spelling is kept. Blank terms are ignored.
func (t *Tracker) Record(c Category, term string) error {
	r, err := t.ranking(c)
	if err != nil {
		return err
	}
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}
	now := t.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	i := slices.IndexFunc(r.entries, func(e Entry) bool {
		return strings.EqualFold(e.Term, term)
	})
	if i >= 0 {
		r.entries[i].Count++
		r.entries[i].LastSeen = now
	} else {
		r.entries = append(r.entries, Entry{Term: term, Count: 1, LastSeen: now})
	}

	// stable: equal counts keep their existing order
	slices.SortStableFunc(r.entries, func(a, b Entry) int {
		return b.Count - a.Count
	})
	if len(r.entries) > r.max {
		clear(r.entries[r.max:])
		r.entries = r.entries[:r.max]
	}
	return nil
}

// Top returns up to n entries with the highest counts.
func (t *Tracker) Top(c Category, n int) ([]Entry, error) {
	r, err := t.ranking(c)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	n = max(0, min(n, len(r.entries)))
	return slices.Clone(r.entries[:n]), nil
}

// Suggest returns up to n entries whose term contains partial,
// case-insensitively, highest counts first. A blank partial yields none.
func (t *Tracker) Suggest(c Category, partial string, n int) ([]Entry, error) {
	r, err := t.ranking(c)
	if err != nil {
		return nil, err
	}
	partial = strings.ToLower(strings.TrimSpace(partial))
	out := []Entry{}
	if partial == "" || n <= 0 {
		return out, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if strings.Contains(strings.ToLower(e.Term), partial) {
			out = append(out, e)
			if len(out) == n {
				break
			}
		}
	}
	return out, nil
}
