package ledger

import "context"

// Store persists ledger entries. Implementations are append-only: there is no
// update or delete operation, and none may be added. Absent entries surface as
// sentinel.ErrNotFound.
type Store interface {
	Append(ctx context.Context, e Entry) error
	Get(ctx context.Context, entryID string) (Entry, error)
	ListByCase(ctx context.Context, caseID string) ([]Entry, error)
	// All streams every entry in append order for full-ledger verification.
	All(ctx context.Context) ([]Entry, error)
}
