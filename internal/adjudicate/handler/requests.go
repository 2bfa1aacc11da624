package handler

import (
	"strings"

	"arbiter/internal/adjudicate"
	"arbiter/internal/domain"
	dErrors "arbiter/pkg/domain-errors"
)

const maxTextBytes = 64 * 1024

// AdjudicateRequest is the HTTP request body for POST /adjudicate.
type AdjudicateRequest struct {
	CaseID  string         `json:"case_id,omitempty"`
	Text    string         `json:"text"`
	Domain  string         `json:"domain,omitempty"`
	Context map[string]any `json:"context,omitempty"`
}

// Validate checks the request before it reaches the pipeline.
func (r *AdjudicateRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return dErrors.New(dErrors.CodeValidation, "text is required")
	}
	if len(r.Text) > maxTextBytes {
		return dErrors.Newf(dErrors.CodeValidation, "text exceeds %d bytes", maxTextBytes)
	}
	return nil
}

// ToCase converts the request into the pipeline's input.
func (r *AdjudicateRequest) ToCase() domain.Case {
	return domain.Case{
		ID:      r.CaseID,
		Text:    r.Text,
		Domain:  r.Domain,
		Context: r.Context,
	}
}

// EscalateRequest is the HTTP request body for POST /escalate. Only case_id
// is mandatory: ref_entry_id defaults to the case's latest decision entry and
// an omitted verdict records the escalation as pending review.
type EscalateRequest struct {
	CaseID     string `json:"case_id"`
	RefEntryID string `json:"ref_entry_id,omitempty"`
	Note       string `json:"note,omitempty"`
	Verdict    string `json:"verdict,omitempty"`
}

// Validate checks the escalation request.
func (r *EscalateRequest) Validate() error {
	if r.CaseID == "" {
		return dErrors.New(dErrors.CodeValidation, "case_id is required")
	}
	if r.Verdict != "" && !domain.Verdict(r.Verdict).Valid() {
		return dErrors.Newf(dErrors.CodeValidation, "unknown verdict %q", r.Verdict)
	}
	return nil
}

// ToDomain converts the request, attributing it to the authenticated subject.
func (r *EscalateRequest) ToDomain(actor string) adjudicate.EscalateRequest {
	return adjudicate.EscalateRequest{
		CaseID:     r.CaseID,
		RefEntryID: r.RefEntryID,
		Actor:      actor,
		Note:       r.Note,
		Verdict:    domain.Verdict(r.Verdict),
	}
}
