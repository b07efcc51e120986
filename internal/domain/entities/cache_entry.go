package entities

import "time"

// CacheEntry is a memoized drift result as persisted by a cache backend
type CacheEntry struct {
	Key          string       `json:"cache_key"`
	SearchParams SearchParams `json:"search_params"`
	Result       DriftResult  `json:"result"`
	ExpiresAt    time.Time    `json:"expires_at"`
}

// IsExpired reports whether the entry is no longer valid at now
func (e *CacheEntry) IsExpired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}
