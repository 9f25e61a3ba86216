package session

import "time"

// DefaultTTL is used when no positive time-to-live is configured.
const DefaultTTL = time.Hour

// ComputeExpiry returns the absolute expiration instant for a session
// created or renewed at now.
func ComputeExpiry(ttl time.Duration, now time.Time) time.Time {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return now.Add(ttl)
}
