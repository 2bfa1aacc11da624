package ledger

import (
	"encoding/json"
	"fmt"
)

// canonicalPayload returns the deterministic byte encoding of an entry with
// its signature stripped. The entry is marshaled, re-read into generic maps,
// and marshaled again; encoding/json writes map keys in sorted order, so two
// semantically equal entries always produce identical bytes.
func canonicalPayload(e Entry) ([]byte, error) {
	e.Signature = ""

	raw, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode entry: %w", err)
	}

	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("normalize entry: %w", err)
	}

	canonical, err := json.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("canonicalize entry: %w", err)
	}
	return canonical, nil
}
