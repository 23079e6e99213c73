// Package idgen generates listing ids for events that arrive without one.
package idgen

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// ListingPrefix is prepended to generated listing ids
const ListingPrefix = "job_"

// alphabet is lower-case only so ids compare the same in every store
const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

const size = 12

// NewListingID returns a new random listing id
func NewListingID() (string, error) {
	return New(ListingPrefix)
}

// New returns prefix followed by a random nanoid
func New(prefix string) (string, error) {
	id, err := nanoid.Generate(alphabet, size)
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return prefix + id, nil
}
