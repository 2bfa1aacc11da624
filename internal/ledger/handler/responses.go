package handler

import (
	"time"

	"arbiter/internal/domain"
	"arbiter/internal/ledger"
)

// EntryResponse is the HTTP shape of one ledger entry.
type EntryResponse struct {
	EntryID    string          `json:"entry_id"`
	Kind       string          `json:"kind"`
	CaseID     string          `json:"case_id"`
	Verdict    string          `json:"verdict"`
	Decision   domain.Decision `json:"decision,omitempty"`
	Actor      string          `json:"actor,omitempty"`
	Note       string          `json:"note,omitempty"`
	RefEntryID string          `json:"ref_entry_id,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
	KeyVersion int             `json:"key_version"`
	Signature  string          `json:"signature"`
}

// VerifyResponse is the HTTP response for single-entry verification.
type VerifyResponse struct {
	EntryID string `json:"entry_id"`
	Valid   bool   `json:"valid"`
}

// FromEntry converts a ledger entry to its HTTP shape.
func FromEntry(e ledger.Entry) EntryResponse {
	return EntryResponse{
		EntryID:    e.ID,
		Kind:       string(e.Kind),
		CaseID:     e.CaseID,
		Verdict:    string(e.Verdict),
		Decision:   e.Decision,
		Actor:      e.Actor,
		Note:       e.Note,
		RefEntryID: e.RefEntryID,
		Timestamp:  e.Timestamp,
		KeyVersion: e.KeyVersion,
		Signature:  e.Signature,
	}
}

// FromEntries converts a list of entries.
func FromEntries(entries []ledger.Entry) []EntryResponse {
	out := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, FromEntry(e))
	}
	return out
}
