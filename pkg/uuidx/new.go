// Package uuidx mints the identifiers used across the module: version 7
// UUIDs, which embed their creation time. Messages, turns and subscriptions
// therefore sort chronologically by ID alone, without consulting timestamps.
package uuidx

import "github.com/google/uuid"

// New returns a fresh version 7 UUID. IDs minted by the same process are
// strictly increasing, so two messages appended back to back never compare
// equal or out of order. Panics when the random source fails.
func New() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}

// NewString returns New rendered in the canonical hex form. The string form
// preserves the ordering of the binary form.
func NewString() string {
	return New().String()
}
