package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/yurift/drift/internal/domain/providers"
)

// MemoryCounterStore keeps sliding windows in process memory. It is only
// correct for a single instance; use RedisCounterStore when several
// instances share a quota.
type MemoryCounterStore struct {
	mu      sync.Mutex
	windows map[string]*memoryWindow
}

type memoryWindow struct {
	stamps    []time.Time
	expiresAt time.Time
}

// NewMemoryCounterStore creates an empty in-process store
func NewMemoryCounterStore() *MemoryCounterStore {
	return &MemoryCounterStore{windows: make(map[string]*memoryWindow)}
}

// Admit implements providers.RateCounterStore. The mutex makes the
// prune/count/add sequence atomic.
func (s *MemoryCounterStore) Admit(_ context.Context, identifier string, now time.Time, window time.Duration, limit int, expiry time.Duration) (providers.WindowSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[identifier]
	if !ok || !now.Before(w.expiresAt) {
		w = &memoryWindow{}
		s.windows[identifier] = w
	}

	cutoff := now.Add(-window)
	kept := w.stamps[:0]
	for _, ts := range w.stamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	w.stamps = kept

	count := len(w.stamps)
	if count >= limit {
		snap := providers.WindowSnapshot{Admitted: false, Count: count}
		for _, ts := range w.stamps {
			if snap.Oldest.IsZero() || ts.Before(snap.Oldest) {
				snap.Oldest = ts
			}
		}
		return snap, nil
	}

	w.stamps = append(w.stamps, now)
	w.expiresAt = now.Add(expiry)
	return providers.WindowSnapshot{Admitted: true, Count: count}, nil
}

// Delete implements providers.RateCounterStore
func (s *MemoryCounterStore) Delete(_ context.Context, identifier string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.windows, identifier)
	return nil
}

var _ providers.RateWindowSweeper = (*MemoryCounterStore)(nil)

// Sweep implements providers.RateWindowSweeper
func (s *MemoryCounterStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, w := range s.windows {
		if !now.Before(w.expiresAt) {
			delete(s.windows, id)
			removed++
		}
	}
	return removed
}
