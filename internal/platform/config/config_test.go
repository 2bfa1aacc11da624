package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arbiter/internal/domain"
)

func basePipeline() Pipeline {
	return Pipeline{
		Version:            "v1",
		MaxParallelism:     4,
		AmbiguityThreshold: 0.1,
		Weights:            map[string]float64{"safety": 2.0, "policy": 1.0},
		Priorities:         map[string]domain.Priority{"safety": domain.PriorityOverride},
		Rules:              domain.DefaultGovernanceRules(),
	}
}

func TestFingerprint_StableAcrossCalls(t *testing.T) {
	p := basePipeline()
	first := p.Fingerprint()
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, p.Fingerprint())
	}
}

func TestFingerprint_ChangesWithDecisionInputs(t *testing.T) {
	base := basePipeline().Fingerprint()

	weight := basePipeline()
	weight.Weights["safety"] = 3.0
	assert.NotEqual(t, base, weight.Fingerprint())

	priority := basePipeline()
	priority.Priorities["policy"] = domain.PriorityAdvisory
	assert.NotEqual(t, base, priority.Fingerprint())

	threshold := basePipeline()
	threshold.AmbiguityThreshold = 0.2
	assert.NotEqual(t, base, threshold.Fingerprint())

	version := basePipeline()
	version.Version = "v2"
	assert.NotEqual(t, base, version.Fingerprint())

	rules := basePipeline()
	rules.Rules[2].Severity = domain.SeverityCritical
	assert.NotEqual(t, base, rules.Fingerprint())
}

func TestFingerprint_IgnoresOperationalKnobs(t *testing.T) {
	// Parallelism and timeouts change how fast a decision arrives, not what
	// it is; cached decisions stay valid across their changes.
	a := basePipeline()
	b := basePipeline()
	b.MaxParallelism = 16
	b.CriticTimeout = a.CriticTimeout + 1

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(context.Background())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 8, cfg.Pipeline.MaxParallelism)
	assert.InDelta(t, 0.1, cfg.Pipeline.AmbiguityThreshold, 1e-9)
	assert.NotEmpty(t, cfg.Pipeline.Rules)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero parallelism", func(c *Config) { c.Pipeline.MaxParallelism = 0 }},
		{"ambiguity above one", func(c *Config) { c.Pipeline.AmbiguityThreshold = 1.5 }},
		{"negative weight", func(c *Config) { c.Pipeline.Weights = map[string]float64{"x": -1} }},
		{"unknown priority", func(c *Config) { c.Pipeline.Priorities = map[string]domain.Priority{"x": "boss"} }},
		{"empty rule name", func(c *Config) { c.Pipeline.Rules = []domain.GovernanceRule{{}} }},
		{"zero cache capacity", func(c *Config) { c.Pipeline.CacheCapacity = 0 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := FromEnv(context.Background())
			require.NoError(t, err)
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestWeightAndPriorityDefaults(t *testing.T) {
	p := basePipeline()

	assert.InDelta(t, 2.0, p.WeightFor("safety"), 1e-9)
	assert.InDelta(t, 1.0, p.WeightFor("unknown"), 1e-9)
	assert.Equal(t, domain.PriorityOverride, p.PriorityFor("safety"))
	assert.Equal(t, domain.PriorityNormal, p.PriorityFor("unknown"))
}
