// Package config loads and validates the service configuration once at
// startup. The pipeline section is hashed into a fingerprint so cached
// decisions made under a different rule or weight configuration are never
// reused.
package config

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/sethvargo/go-envconfig"

	"arbiter/internal/domain"
)

// Config is the full service configuration.
type Config struct {
	Addr          string `env:"ARBITER_ADDR, default=:8080"`
	JWTSigningKey string `env:"ARBITER_JWT_SIGNING_KEY"`

	// LedgerSecret is the master secret the audit ledger derives its signing
	// keys from. Required outside of tests.
	LedgerSecret string `env:"ARBITER_LEDGER_SECRET"`

	PostgresDSN string `env:"ARBITER_POSTGRES_DSN"`
	KafkaBroker string `env:"ARBITER_KAFKA_BROKER"`
	KafkaTopic  string `env:"ARBITER_KAFKA_TOPIC, default=arbiter.audit"`

	Redis RedisConfig `env:", prefix=ARBITER_REDIS_"`

	// PipelineFile optionally points at a JSON file with weights, priorities,
	// and governance rules. Defaults apply when unset.
	PipelineFile string `env:"ARBITER_PIPELINE_FILE"`

	Pipeline Pipeline `env:", prefix=ARBITER_PIPELINE_"`
}

// RedisConfig configures the optional Redis-backed decision cache.
type RedisConfig struct {
	URL          string        `env:"URL"`
	PoolSize     int           `env:"POOL_SIZE, default=10"`
	MinIdleConns int           `env:"MIN_IDLE_CONNS, default=2"`
	DialTimeout  time.Duration `env:"DIAL_TIMEOUT, default=5s"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT, default=3s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT, default=3s"`
}

// Pipeline holds every knob that influences what decision comes out of the
// pipeline for a given case. It is versioned and fingerprinted; changing any
// field invalidates cached decisions.
type Pipeline struct {
	Version string `env:"VERSION, default=v1" json:"version"`

	MaxParallelism int           `env:"MAX_PARALLELISM, default=8" json:"max_parallelism"`
	CriticTimeout  time.Duration `env:"CRITIC_TIMEOUT, default=10s" json:"critic_timeout"`

	RetryMaxAttempts int           `env:"RETRY_MAX_ATTEMPTS, default=3" json:"retry_max_attempts"`
	RetryBaseDelay   time.Duration `env:"RETRY_BASE_DELAY, default=100ms" json:"retry_base_delay"`
	RetryMaxDelay    time.Duration `env:"RETRY_MAX_DELAY, default=2s" json:"retry_max_delay"`

	BreakerFailureThreshold int           `env:"BREAKER_FAILURE_THRESHOLD, default=5" json:"breaker_failure_threshold"`
	BreakerWindow           time.Duration `env:"BREAKER_WINDOW, default=1m" json:"breaker_window"`
	BreakerCooldown         time.Duration `env:"BREAKER_COOLDOWN, default=30s" json:"breaker_cooldown"`

	// AmbiguityThreshold is the single disagreement threshold used by the
	// aggregator on every entry point.
	AmbiguityThreshold float64 `env:"AMBIGUITY_THRESHOLD, default=0.1" json:"ambiguity_threshold"`

	CacheTTL      time.Duration `env:"CACHE_TTL, default=15m" json:"cache_ttl"`
	CacheCapacity int           `env:"CACHE_CAPACITY, default=1024" json:"cache_capacity"`

	// Weights and Priorities are keyed by critic name. Critics absent from the
	// maps get weight 1.0 and priority normal.
	Weights    map[string]float64         `json:"weights,omitempty"`
	Priorities map[string]domain.Priority `json:"priorities,omitempty"`

	// RemoteJudges maps critic name to judge endpoint URL. Only settable via
	// the pipeline file. Endpoint changes that alter judge behavior should
	// bump Version so the cache invalidates.
	RemoteJudges map[string]string `json:"remote_judges,omitempty"`

	Rules []domain.GovernanceRule `json:"rules,omitempty"`
}

// FromEnv builds the configuration from environment variables, merging in the
// pipeline file when one is configured, and validates the result.
func FromEnv(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}

	if cfg.PipelineFile != "" {
		if err := cfg.Pipeline.mergeFile(cfg.PipelineFile); err != nil {
			return nil, err
		}
	}
	if len(cfg.Pipeline.Rules) == 0 {
		cfg.Pipeline.Rules = domain.DefaultGovernanceRules()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the pipeline cannot run under. It runs once
// at load time; nothing re-validates per request.
func (c *Config) Validate() error {
	p := c.Pipeline
	if p.MaxParallelism < 1 {
		return fmt.Errorf("pipeline max parallelism must be >= 1, got %d", p.MaxParallelism)
	}
	if p.CriticTimeout <= 0 {
		return fmt.Errorf("pipeline critic timeout must be positive")
	}
	if p.RetryMaxAttempts < 0 {
		return fmt.Errorf("pipeline retry attempts cannot be negative")
	}
	if p.AmbiguityThreshold < 0 || p.AmbiguityThreshold > 1 {
		return fmt.Errorf("ambiguity threshold must be within [0,1], got %v", p.AmbiguityThreshold)
	}
	if p.CacheCapacity < 1 {
		return fmt.Errorf("cache capacity must be >= 1, got %d", p.CacheCapacity)
	}
	for name, w := range p.Weights {
		if w < 0 {
			return fmt.Errorf("critic %q has negative weight %v", name, w)
		}
	}
	for name, pr := range p.Priorities {
		if !pr.Valid() {
			return fmt.Errorf("critic %q has unknown priority %q", name, pr)
		}
	}
	for _, r := range p.Rules {
		if r.RightName == "" {
			return fmt.Errorf("governance rule with empty right name")
		}
	}
	return nil
}

func (p *Pipeline) mergeFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read pipeline file: %w", err)
	}
	if err := json.Unmarshal(raw, p); err != nil {
		return fmt.Errorf("parse pipeline file %s: %w", path, err)
	}
	return nil
}

// Fingerprint returns a stable hash of every decision-influencing field. Cache
// entries carry the fingerprint active at write time; a mismatch on read is a
// miss.
func (p Pipeline) Fingerprint() string {
	h := sha256.New()
	fmt.Fprintf(h, "version=%s\n", p.Version)
	fmt.Fprintf(h, "ambiguity=%v\n", p.AmbiguityThreshold)

	names := make([]string, 0, len(p.Weights))
	for name := range p.Weights {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(h, "weight.%s=%v\n", name, p.Weights[name])
	}

	names = names[:0]
	for name := range p.Priorities {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(h, "priority.%s=%s\n", name, p.Priorities[name])
	}

	for _, r := range p.Rules {
		fmt.Fprintf(h, "rule.%s=%v,%s\n", r.RightName, r.Required, r.Severity)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// WeightFor returns the configured weight for a critic, defaulting to 1.0.
func (p Pipeline) WeightFor(criticName string) float64 {
	if w, ok := p.Weights[criticName]; ok {
		return w
	}
	return 1.0
}

// PriorityFor returns the configured priority for a critic, defaulting to normal.
func (p Pipeline) PriorityFor(criticName string) domain.Priority {
	if pr, ok := p.Priorities[criticName]; ok {
		return pr
	}
	return domain.PriorityNormal
}
