package critic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"arbiter/internal/domain"
)

// KeywordCritic is a rule-based critic: it scans case text for configured
// terms and maps matches to a verdict and rights violations. It is a pure
// function of its inputs, which makes it the cheap, always-available baseline
// in any evaluator set.
type KeywordCritic struct {
	name string
	// blockTerms maps a term to the right it violates ("" for plain blocks).
	blockTerms  map[string]string
	reviewTerms []string
}

// NewKeywordCritic builds a keyword critic. blockTerms maps term -> violated
// right name; reviewTerms trigger REVIEW without a violation.
func NewKeywordCritic(name string, blockTerms map[string]string, reviewTerms []string) *KeywordCritic {
	return &KeywordCritic{name: name, blockTerms: blockTerms, reviewTerms: reviewTerms}
}

func (k *KeywordCritic) Name() string { return k.name }

func (k *KeywordCritic) Evaluate(ctx context.Context, c domain.Case) (domain.CriticOutput, error) {
	start := time.Now()
	text := strings.ToLower(c.Text)

	out := domain.CriticOutput{
		CriticName: k.name,
		Verdict:    domain.VerdictAllow,
		Confidence: 0.9,
	}

	for term, right := range k.blockTerms {
		if strings.Contains(text, strings.ToLower(term)) {
			out.Verdict = domain.VerdictBlock
			out.Confidence = 0.95
			out.Justification = fmt.Sprintf("matched blocked term %q", term)
			if right != "" {
				out.Violations = append(out.Violations, right)
			}
		}
	}

	if out.Verdict == domain.VerdictAllow {
		for _, term := range k.reviewTerms {
			if strings.Contains(text, strings.ToLower(term)) {
				out.Verdict = domain.VerdictReview
				out.Confidence = 0.6
				out.Justification = fmt.Sprintf("matched review term %q", term)
				break
			}
		}
	}

	if out.Justification == "" {
		out.Justification = "no flagged terms"
	}
	out.Elapsed = time.Since(start)
	return out, nil
}
