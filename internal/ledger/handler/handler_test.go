package handler

import (
	"context"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arbiter/internal/domain"
	"arbiter/internal/ledger"
	dErrors "arbiter/pkg/domain-errors"
	"arbiter/pkg/testutil"
)

func newTestHandler(t *testing.T) (http.Handler, *ledger.Service) {
	t.Helper()
	keyring, err := ledger.NewKeyring("handler-test-secret")
	require.NoError(t, err)
	svc := ledger.NewService(ledger.NewMemoryStore(), keyring, slog.New(slog.DiscardHandler), nil)

	r := chi.NewRouter()
	New(svc, slog.New(slog.DiscardHandler)).Register(r)
	return r, svc
}

func TestHandleGetEntry(t *testing.T) {
	router, svc := newTestHandler(t)
	entry, err := svc.AppendDecision(context.Background(), domain.Decision{
		ID: "dec-1", CaseID: "case-1", OverallVerdict: domain.VerdictAllow,
	})
	require.NoError(t, err)

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/audit/entries/"+entry.ID, nil))
	testutil.AssertStatus(t, rr, http.StatusOK)

	resp := testutil.UnmarshalResponse[EntryResponse](t, rr)
	assert.Equal(t, entry.ID, resp.EntryID)
	assert.Equal(t, "ALLOW", resp.Verdict)
	assert.NotEmpty(t, resp.Signature)
}

func TestHandleGetEntry_NotFound(t *testing.T) {
	router, _ := newTestHandler(t)

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/audit/entries/absent", nil))
	testutil.AssertStatus(t, rr, http.StatusNotFound)
	testutil.AssertErrorCode(t, rr, string(dErrors.CodeNotFound))
}

func TestHandleListCase(t *testing.T) {
	router, svc := newTestHandler(t)
	ctx := context.Background()

	first, err := svc.AppendDecision(ctx, domain.Decision{ID: "dec-1", CaseID: "case-1", OverallVerdict: domain.VerdictReview})
	require.NoError(t, err)
	_, err = svc.AppendEscalation(ctx, "case-1", first.ID, "reviewer", "checked", domain.VerdictAllow)
	require.NoError(t, err)

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/audit/cases/case-1", nil))
	testutil.AssertStatus(t, rr, http.StatusOK)

	resp := testutil.UnmarshalResponse[[]EntryResponse](t, rr)
	require.Len(t, *resp, 2)
	assert.Equal(t, "decision", (*resp)[0].Kind)
	assert.Equal(t, "escalation", (*resp)[1].Kind)
}

func TestHandleVerify(t *testing.T) {
	router, svc := newTestHandler(t)
	entry, err := svc.AppendDecision(context.Background(), domain.Decision{
		ID: "dec-1", CaseID: "case-1", OverallVerdict: domain.VerdictBlock,
	})
	require.NoError(t, err)

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/audit/entries/"+entry.ID+"/verify", nil))
	testutil.AssertStatus(t, rr, http.StatusOK)

	resp := testutil.UnmarshalResponse[VerifyResponse](t, rr)
	assert.True(t, resp.Valid)
}

func TestHandleVerifyAll(t *testing.T) {
	router, svc := newTestHandler(t)
	for i := 0; i < 3; i++ {
		_, err := svc.AppendDecision(context.Background(), domain.Decision{
			ID: "dec", CaseID: "case-1", OverallVerdict: domain.VerdictAllow,
		})
		require.NoError(t, err)
	}

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/audit/verify-all", nil))
	testutil.AssertStatus(t, rr, http.StatusOK)

	resp := testutil.UnmarshalResponse[ledger.Report](t, rr)
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, 3, resp.Valid)
	assert.Zero(t, resp.Tampered)
	assert.Empty(t, resp.TamperedIDs)
}
