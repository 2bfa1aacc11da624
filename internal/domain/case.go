package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// ContextKeyPrecedentStatus is the case-context key under which precedent
// retrieval places its consistency hint for the aggregator.
const ContextKeyPrecedentStatus = "precedent_status"

// Precedent status hints supplied via case context.
const (
	PrecedentNovel       = "novel"
	PrecedentConsistent  = "consistent"
	PrecedentConflicting = "conflicting"
)

// Case is the immutable input to an adjudication. Callers construct it once;
// the pipeline never mutates it.
type Case struct {
	ID      string         `json:"case_id"`
	Text    string         `json:"text"`
	Context map[string]any `json:"context,omitempty"`
	Domain  string         `json:"domain,omitempty"`
}

// WithID returns a copy of the case with an ID assigned if the caller omitted one.
func (c Case) WithID() Case {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return c
}

// PrecedentStatus returns the precedent hint from the case context, or "" if absent.
func (c Case) PrecedentStatus() string {
	if c.Context == nil {
		return ""
	}
	s, _ := c.Context[ContextKeyPrecedentStatus].(string)
	return s
}

// Hash returns a deterministic content hash of the normalized case. The case ID
// is excluded so that identical content always maps to the same cache key, and
// context keys are serialized in sorted order.
func (c Case) Hash() string {
	h := sha256.New()
	fmt.Fprintf(h, "text=%s\n", c.Text)
	fmt.Fprintf(h, "domain=%s\n", c.Domain)

	keys := make([]string, 0, len(c.Context))
	for k := range c.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		// json.Marshal is stable for scalar values and sorts nested map keys.
		v, err := json.Marshal(c.Context[k])
		if err != nil {
			v = []byte(fmt.Sprintf("%v", c.Context[k]))
		}
		fmt.Fprintf(h, "ctx.%s=%s\n", k, v)
	}
	return hex.EncodeToString(h.Sum(nil))
}
