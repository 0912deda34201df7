package domain

import (
	"encoding/json"
	"math"
	"time"
)

// maxLifetimeSeconds is the largest offset a time.Duration can hold.
const maxLifetimeSeconds = math.MaxInt64 / int64(time.Second)

// Lifetime is the validity window of an access token, held as an
// absolute expiry instant.
type Lifetime struct {
	expires time.Time
}

// NewLifetime returns a lifetime ending expiresIn seconds after now.
// Offsets beyond roughly 292 years saturate so the sign of expiresIn always
// decides whether the lifetime is already over.
func NewLifetime(now time.Time, expiresIn int64) Lifetime {
	expiresIn = min(max(expiresIn, -maxLifetimeSeconds), maxLifetimeSeconds)
	return Lifetime{expires: now.Add(time.Duration(expiresIn) * time.Second)}
}

// LifetimeUntil returns a lifetime ending at the given instant.
func LifetimeUntil(expires time.Time) Lifetime {
	return Lifetime{expires: expires}
}

// ExpiresAt returns the expiry instant.
func (l Lifetime) ExpiresAt() time.Time {
	return l.expires
}

// Expired reports whether the token has expired at the current time.
func (l Lifetime) Expired() bool {
	return l.ExpiredAt(time.Now())
}

// ExpiredAt reports whether now is at or past the expiry instant.
func (l Lifetime) ExpiredAt(now time.Time) bool {
	return !now.Before(l.expires)
}

// Remaining returns the time left before expiry, or zero once expired.
func (l Lifetime) Remaining(now time.Time) time.Duration {
	if l.ExpiredAt(now) {
		return 0
	}
	return l.expires.Sub(now)
}

// Equal reports whether both lifetimes end at the same instant.
func (l Lifetime) Equal(other Lifetime) bool {
	return l.expires.Equal(other.expires)
}

// MarshalJSON encodes the expiry as a Unix timestamp in seconds.
func (l Lifetime) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.expires.Unix())
}

// UnmarshalJSON decodes a Unix timestamp in seconds.
func (l *Lifetime) UnmarshalJSON(data []byte) error {
	var ts int64
	if err := json.Unmarshal(data, &ts); err != nil {
		return err
	}
	l.expires = time.Unix(ts, 0).UTC()
	return nil
}
