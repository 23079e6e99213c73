package idgen

import (
	"regexp"
	"testing"
)

func TestNewListingID_Format(t *testing.T) {
	pattern := regexp.MustCompile(`^job_[0-9a-z]{12}$`)
	for i := 0; i < 100; i++ {
		id, err := NewListingID()
		if err != nil {
			t.Fatalf("NewListingID() error on iteration %d: %v", i, err)
		}
		if !pattern.MatchString(id) {
			t.Fatalf("NewListingID() = %q, does not match %s", id, pattern)
		}
	}
}

func TestNew_Unique(t *testing.T) {
	const count = 10_000
	seen := make(map[string]struct{}, count)
	for i := 0; i < count; i++ {
		id, err := New("c_")
		if err != nil {
			t.Fatalf("New() error on iteration %d: %v", i, err)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate ID after %d generations: %q", i, id)
		}
		seen[id] = struct{}{}
	}
}
