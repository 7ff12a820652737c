package common

import "time"

// IsFresh reports whether a value updated at the given time is still within ttl.
// A zero ttl never expires; a zero timestamp is never fresh.
func IsFresh(updated time.Time, ttl time.Duration, now time.Time) bool {
	if updated.IsZero() {
		return false
	}
	if ttl <= 0 {
		return true
	}
	return now.Sub(updated) < ttl
}
