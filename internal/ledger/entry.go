package ledger

import (
	"time"

	"arbiter/internal/domain"
)

// Kind distinguishes ledger entry types.
type Kind string

const (
	// KindDecision records a completed adjudication.
	KindDecision Kind = "decision"
	// KindEscalation records a human escalation referencing an earlier entry.
	// Prior entries are never rewritten; escalations supersede by reference.
	KindEscalation Kind = "escalation"
)

// Entry is one immutable ledger record. Signature covers every other field via
// the canonical encoding; KeyVersion names the signing key so verification
// survives rotation.
type Entry struct {
	ID         string          `json:"entry_id"`
	Kind       Kind            `json:"kind"`
	CaseID     string          `json:"case_id"`
	Verdict    domain.Verdict  `json:"verdict"`
	Decision   domain.Decision `json:"decision"`
	Actor      string          `json:"actor,omitempty"`
	Note       string          `json:"note,omitempty"`
	RefEntryID string          `json:"ref_entry_id,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
	KeyVersion int             `json:"key_version"`
	Signature  string          `json:"signature,omitempty"`
}
