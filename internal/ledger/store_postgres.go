package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"arbiter/pkg/platform/sentinel"
	"arbiter/pkg/platform/tx"
)

// PostgresStore persists ledger entries in PostgreSQL. The full signed entry
// is stored as JSONB; the indexed columns exist only for querying and must
// never be used to reconstruct the signed payload.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore wraps an open database handle.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const ledgerSchema = `
CREATE TABLE IF NOT EXISTS audit_ledger (
	entry_id     TEXT PRIMARY KEY,
	kind         TEXT NOT NULL,
	case_id      TEXT NOT NULL,
	verdict      TEXT NOT NULL,
	ts           TIMESTAMPTZ NOT NULL,
	key_version  INT NOT NULL,
	payload      JSONB NOT NULL,
	seq          BIGSERIAL
);
CREATE INDEX IF NOT EXISTS audit_ledger_case_idx ON audit_ledger (case_id);
CREATE INDEX IF NOT EXISTS audit_ledger_verdict_idx ON audit_ledger (verdict);
CREATE INDEX IF NOT EXISTS audit_ledger_ts_idx ON audit_ledger (ts);
`

// EnsureSchema creates the ledger table and indexes when absent.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, ledgerSchema); err != nil {
		return fmt.Errorf("ensure ledger schema: %w", err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *PostgresStore) execer(ctx context.Context) execer {
	if t, ok := tx.From(ctx); ok {
		return t
	}
	return s.db
}

func (s *PostgresStore) Append(ctx context.Context, e Entry) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode ledger entry: %w", err)
	}

	_, err = s.execer(ctx).ExecContext(ctx, `
		INSERT INTO audit_ledger (entry_id, kind, case_id, verdict, ts, key_version, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, string(e.Kind), e.CaseID, string(e.Verdict), e.Timestamp, e.KeyVersion, payload,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("append ledger entry: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, entryID string) (Entry, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM audit_ledger WHERE entry_id = $1`, entryID,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, sentinel.ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("get ledger entry: %w", err)
	}
	return decodeEntry(payload)
}

func (s *PostgresStore) ListByCase(ctx context.Context, caseID string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM audit_ledger WHERE case_id = $1 ORDER BY seq`, caseID,
	)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func (s *PostgresStore) All(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT payload FROM audit_ledger ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("scan ledger: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var out []Entry
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan ledger row: %w", err)
		}
		e, err := decodeEntry(payload)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func decodeEntry(payload []byte) (Entry, error) {
	var e Entry
	if err := json.Unmarshal(payload, &e); err != nil {
		return Entry{}, fmt.Errorf("decode ledger entry: %w", err)
	}
	return e, nil
}
