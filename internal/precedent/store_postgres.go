package precedent

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"arbiter/internal/domain"
)

// PostgresStore persists verdict history in PostgreSQL through a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps an established pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const precedentSchema = `
CREATE TABLE IF NOT EXISTS precedents (
	decision_id  TEXT PRIMARY KEY,
	content_hash TEXT NOT NULL,
	verdict      TEXT NOT NULL,
	recorded_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS precedents_hash_idx ON precedents (content_hash);
`

// EnsureSchema creates the precedent table when absent.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, precedentSchema); err != nil {
		return fmt.Errorf("ensure precedent schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Record(ctx context.Context, contentHash string, decisionID string, verdict domain.Verdict) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO precedents (decision_id, content_hash, verdict)
		VALUES ($1, $2, $3)
		ON CONFLICT (decision_id) DO NOTHING`,
		decisionID, contentHash, string(verdict),
	)
	if err != nil {
		return fmt.Errorf("record precedent: %w", err)
	}
	return nil
}

func (s *PostgresStore) Verdicts(ctx context.Context, contentHash string) ([]domain.Verdict, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT verdict FROM precedents
		WHERE content_hash = $1
		ORDER BY recorded_at`,
		contentHash,
	)
	if err != nil {
		return nil, fmt.Errorf("query precedents: %w", err)
	}
	defer rows.Close()

	var out []domain.Verdict
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan precedent: %w", err)
		}
		out = append(out, domain.Verdict(v))
	}
	return out, rows.Err()
}
