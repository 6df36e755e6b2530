// Package session binds authenticated principals to opaque tokens held by
// the client. The token maps server-side to a reduced identity; nothing
// sensitive ever enters the session record.
package session

import (
	"time"

	"whisperwall/internal/identity"
)

// Record is one live session. Device is a human-readable name parsed from
// the User-Agent at issue time.
type Record struct {
	Token     string             `json:"token"`
	Principal identity.Principal `json:"principal"`
	Device    string             `json:"device,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	ExpiresAt time.Time          `json:"expires_at"`
}

// Expired reports whether the record is past its expiry at the given time.
func (r *Record) Expired(now time.Time) bool {
	return !r.ExpiresAt.After(now)
}
