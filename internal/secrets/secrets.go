// Package secrets owns the shared text entries authenticated users post and
// view. It is the resource the access gate protects; content is stored as
// submitted.
package secrets

import "time"

// Secret is one shared entry.
type Secret struct {
	ID        int64
	UserID    int64
	Text      string
	CreatedAt time.Time
}
