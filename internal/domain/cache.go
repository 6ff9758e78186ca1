package domain

import (
	"encoding/json"
	"time"
)

// CacheEntry wraps an arbitrary cached payload with its validity window.
type CacheEntry struct {
	Data      json.RawMessage `json:"data"`
	StoredAt  time.Time       `json:"stored_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// ValidAt reports whether the entry is still usable at now. An entry is valid only
// while now is strictly before ExpiresAt.
func (e CacheEntry) ValidAt(now time.Time) bool {
	return now.Before(e.ExpiresAt)
}
