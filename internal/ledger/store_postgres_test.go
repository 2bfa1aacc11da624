package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arbiter/pkg/platform/tx"
)

// A flush through a TxRunner must be all or nothing: a batch that fails
// midway rolls back entirely and stays queued, so the store never holds a
// partial batch the spill queue no longer knows about.
func TestService_AtomicFlushRollsBackWholeBatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	keyring, err := NewKeyring("test-master-secret")
	require.NoError(t, err)
	svc := NewService(NewPostgresStore(db), keyring, nil, nil,
		WithTxRunner(tx.NewRunner(db)))
	ctx := context.Background()

	// Two appends fail against the store and spill.
	mock.ExpectExec("INSERT INTO audit_ledger").WillReturnError(errors.New("store down"))
	mock.ExpectExec("INSERT INTO audit_ledger").WillReturnError(errors.New("store down"))
	first, err := svc.AppendDecision(ctx, sampleDecision("case-1"))
	require.NoError(t, err)
	second, err := svc.AppendDecision(ctx, sampleDecision("case-2"))
	require.NoError(t, err)

	// First flush: the first re-append lands, the second fails, and the
	// transaction rolls back.
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO audit_ledger").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO audit_ledger").WillReturnError(errors.New("still down"))
	mock.ExpectRollback()
	require.Error(t, svc.FlushSpill(ctx))

	// Second flush re-appends both entries, proving the rollback kept the
	// full batch queued.
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO audit_ledger").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO audit_ledger").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	require.NoError(t, svc.FlushSpill(ctx))

	assert.NoError(t, mock.ExpectationsWereMet())
	assert.NotEmpty(t, first.Signature)
	assert.NotEmpty(t, second.Signature)
}
