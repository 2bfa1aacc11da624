package critic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arbiter/internal/domain"
)

func TestRemoteJudge_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req judgeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "case-1", req.CaseID)

		_ = json.NewEncoder(w).Encode(judgeResponse{
			Verdict:       "DENY",
			Confidence:    0.85,
			Justification: "policy violation",
			Violations:    []string{"privacy"},
		})
	}))
	defer srv.Close()

	judge := NewRemoteJudge("remote", srv.URL, srv.Client())
	out, err := judge.Evaluate(context.Background(), domain.Case{ID: "case-1", Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, domain.VerdictDeny, out.Verdict)
	assert.InDelta(t, 0.85, out.Confidence, 1e-9)
	assert.Equal(t, []string{"privacy"}, out.Violations)
}

func TestRemoteJudge_Non200IsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	judge := NewRemoteJudge("remote", srv.URL, srv.Client())
	_, err := judge.Evaluate(context.Background(), domain.Case{ID: "case-1", Text: "hello"})
	assert.Error(t, err)
}

func TestRemoteJudge_RejectsMalformedVerdict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(judgeResponse{Verdict: "MAYBE", Confidence: 0.5})
	}))
	defer srv.Close()

	judge := NewRemoteJudge("remote", srv.URL, srv.Client())
	_, err := judge.Evaluate(context.Background(), domain.Case{ID: "case-1", Text: "hello"})
	assert.Error(t, err)
}

func TestRemoteJudge_RejectsOutOfRangeConfidence(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(judgeResponse{Verdict: "ALLOW", Confidence: 1.7})
	}))
	defer srv.Close()

	judge := NewRemoteJudge("remote", srv.URL, srv.Client())
	_, err := judge.Evaluate(context.Background(), domain.Case{ID: "case-1", Text: "hello"})
	assert.Error(t, err)
}
