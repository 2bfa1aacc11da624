package critic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"arbiter/internal/domain"
)

// RemoteJudge delegates judgment to an external judge service over HTTP. The
// judge owns its own model and latency; from the pipeline's point of view it
// is just an evaluator whose calls can fail, time out, and be retried.
type RemoteJudge struct {
	name     string
	endpoint string
	client   *http.Client
}

// NewRemoteJudge builds a remote-judge critic for the given endpoint. A nil
// client falls back to a default with a conservative timeout; the resilience
// wrapper and the fan-out deadline bound the call further.
func NewRemoteJudge(name, endpoint string, client *http.Client) *RemoteJudge {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &RemoteJudge{name: name, endpoint: endpoint, client: client}
}

func (r *RemoteJudge) Name() string { return r.name }

type judgeRequest struct {
	CaseID  string         `json:"case_id"`
	Text    string         `json:"text"`
	Domain  string         `json:"domain,omitempty"`
	Context map[string]any `json:"context,omitempty"`
}

type judgeResponse struct {
	Verdict       string   `json:"verdict"`
	Confidence    float64  `json:"confidence"`
	Justification string   `json:"justification"`
	Violations    []string `json:"violations,omitempty"`
}

func (r *RemoteJudge) Evaluate(ctx context.Context, c domain.Case) (domain.CriticOutput, error) {
	start := time.Now()

	body, err := json.Marshal(judgeRequest{
		CaseID:  c.ID,
		Text:    c.Text,
		Domain:  c.Domain,
		Context: c.Context,
	})
	if err != nil {
		return domain.CriticOutput{}, fmt.Errorf("marshal judge request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.CriticOutput{}, fmt.Errorf("build judge request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return domain.CriticOutput{}, fmt.Errorf("call judge %s: %w", r.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.CriticOutput{}, fmt.Errorf("judge %s returned status %d", r.name, resp.StatusCode)
	}

	var jr judgeResponse
	if err := json.NewDecoder(resp.Body).Decode(&jr); err != nil {
		return domain.CriticOutput{}, fmt.Errorf("decode judge response: %w", err)
	}

	verdict := domain.Verdict(jr.Verdict)
	if !verdict.Valid() {
		return domain.CriticOutput{}, fmt.Errorf("judge %s returned unknown verdict %q", r.name, jr.Verdict)
	}
	if jr.Confidence < 0 || jr.Confidence > 1 {
		return domain.CriticOutput{}, fmt.Errorf("judge %s returned confidence %v outside [0,1]", r.name, jr.Confidence)
	}

	return domain.CriticOutput{
		CriticName:    r.name,
		Verdict:       verdict,
		Confidence:    jr.Confidence,
		Justification: jr.Justification,
		Violations:    jr.Violations,
		Elapsed:       time.Since(start),
	}, nil
}
