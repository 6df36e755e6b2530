package secrets

import "context"

// Store persists secrets. Implementations are pure I/O.
type Store interface {
	Insert(ctx context.Context, userID int64, text string) (*Secret, error)
	ListAll(ctx context.Context) ([]Secret, error)
}
