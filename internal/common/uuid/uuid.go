// Package uuid wraps github.com/google/uuid with UUIDv7 (time-ordered) as
// the default. Pages, blocks, and templates all use v7 identifiers so that
// insertion order is recoverable from the id itself.
package uuid

import (
	"github.com/google/uuid"
)

// UUID is aliased from github.com/google/uuid.UUID.
type UUID = uuid.UUID

// Nil is the zero UUID.
var Nil = uuid.Nil

// New returns a new random UUIDv7. Panics if generation fails.
func New() UUID {
	u, err := uuid.NewV7()
	if err != nil {
		panic(err)
	}
	return u
}

// NewRandom returns a new random UUIDv7 and any error encountered.
func NewRandom() (UUID, error) {
	return uuid.NewV7()
}

// Parse parses a UUID string. Returns an error if the string is not a
// valid UUID.
func Parse(s string) (UUID, error) {
	return uuid.Parse(s)
}

// MustParse parses a UUID string and panics on failure. Intended for
// statically authored identifiers.
func MustParse(s string) UUID {
	return uuid.MustParse(s)
}
