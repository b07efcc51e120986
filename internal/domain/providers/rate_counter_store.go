package providers

import (
	"context"
	"time"
)

// WindowSnapshot is the state of one identifier's sliding window after an
// admission attempt.
type WindowSnapshot struct {
	// Admitted is true when the attempt was recorded in the window
	Admitted bool
	// Count is the number of requests in the window before this attempt
	Count int
	// Oldest is the timestamp of the oldest request still in the window.
	// Only set when the attempt was rejected.
	Oldest time.Time
}

// RateCounterStore holds per-identifier request timestamps.
//
// Admit must run prune, count, conditional add and expiry refresh as a single
// atomic unit per identifier: two concurrent callers must never both be
// admitted into the last free slot.
type RateCounterStore interface {
	Admit(ctx context.Context, identifier string, now time.Time, window time.Duration, limit int, expiry time.Duration) (WindowSnapshot, error)

	// Delete removes the identifier's record. Deleting a missing record is not an error.
	Delete(ctx context.Context, identifier string) error
}

// RateWindowSweeper drops idle windows from an in-process counter store.
// Shared stores expire records themselves and do not implement it.
type RateWindowSweeper interface {
	// Sweep removes windows whose expiry has passed and reports how many
	// were removed.
	Sweep(now time.Time) int
}
