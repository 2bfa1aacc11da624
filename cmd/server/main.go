// Command server runs the adjudication service: HTTP surface, critic
// pipeline, decision cache, precedent history, and the signed audit ledger.
// main wires dependencies and owns the lifecycle; business logic lives in the
// internal packages.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"

	"arbiter/internal/adjudicate"
	adjudicatehandler "arbiter/internal/adjudicate/handler"
	adjudicatemetrics "arbiter/internal/adjudicate/metrics"
	"arbiter/internal/aggregate"
	"arbiter/internal/audit"
	"arbiter/internal/cache"
	cachemetrics "arbiter/internal/cache/metrics"
	"arbiter/internal/critic"
	criticmetrics "arbiter/internal/critic/metrics"
	"arbiter/internal/critic/runner"
	httpapi "arbiter/internal/http"
	"arbiter/internal/ledger"
	ledgerhandler "arbiter/internal/ledger/handler"
	ledgermetrics "arbiter/internal/ledger/metrics"
	"arbiter/internal/platform/config"
	"arbiter/internal/platform/httpserver"
	"arbiter/internal/platform/logger"
	"arbiter/internal/platform/redis"
	"arbiter/internal/precedent"
	"arbiter/pkg/platform/circuit"
	"arbiter/pkg/platform/middleware/auth"
	"arbiter/pkg/platform/tx"
)

const spillFlushInterval = 30 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.New()

	cfg, err := config.FromEnv(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.LedgerSecret == "" {
		return errors.New("ARBITER_LEDGER_SECRET is required")
	}

	keyring, err := ledger.NewKeyring(cfg.LedgerSecret)
	if err != nil {
		return err
	}

	// Storage backends. Postgres and Redis are optional; the in-memory
	// variants keep single-node deployments and local development simple.
	var (
		ledgerStore    ledger.Store    = ledger.NewMemoryStore()
		precedentStore precedent.Store = precedent.NewMemoryStore()
		ledgerOpts     []ledger.Option
	)
	if cfg.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			return fmt.Errorf("open postgres: %w", err)
		}
		defer db.Close()

		pgLedger := ledger.NewPostgresStore(db)
		if err := pgLedger.EnsureSchema(ctx); err != nil {
			return err
		}
		ledgerStore = pgLedger
		ledgerOpts = append(ledgerOpts, ledger.WithTxRunner(tx.NewRunner(db)))

		pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return fmt.Errorf("open pgx pool: %w", err)
		}
		defer pool.Close()

		pgPrecedent := precedent.NewPostgresStore(pool)
		if err := pgPrecedent.EnsureSchema(ctx); err != nil {
			return err
		}
		precedentStore = pgPrecedent
	}

	cacheMetrics := cachemetrics.New()
	var cacheStore cache.Store = cache.NewMemoryStore(cfg.Pipeline.CacheCapacity, cacheMetrics)
	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		cacheStore = cache.NewRedisStore(redisClient)
		log.Info("decision cache backed by redis")
	}

	// Critic set: the baseline keyword and risk-threshold critics plus any
	// configured remote judges, each behind its own breaker and retry policy.
	criticMetrics := criticmetrics.New()
	retryCfg := critic.RetryConfig{
		MaxAttempts: cfg.Pipeline.RetryMaxAttempts,
		BaseDelay:   cfg.Pipeline.RetryBaseDelay,
		MaxDelay:    cfg.Pipeline.RetryMaxDelay,
		MaxJitter:   50 * time.Millisecond,
	}
	breakerOpts := []circuit.Option{
		circuit.WithFailureThreshold(cfg.Pipeline.BreakerFailureThreshold),
		circuit.WithWindow(cfg.Pipeline.BreakerWindow),
		circuit.WithCooldown(cfg.Pipeline.BreakerCooldown),
	}
	resilient := func(ev critic.Evaluator) critic.Evaluator {
		return critic.NewResilient(ev, circuit.New(ev.Name(), breakerOpts...), retryCfg, log)
	}

	evaluators := []critic.Evaluator{
		resilient(critic.NewKeywordCritic("keyword",
			map[string]string{
				"dehumanizing": "human_dignity",
				"slur":         "non_discrimination",
			},
			[]string{"violence", "self-harm"},
		)),
		resilient(critic.NewThresholdCritic("risk_threshold", "risk_score", 0.9, 0.7)),
	}
	for name, endpoint := range cfg.Pipeline.RemoteJudges {
		evaluators = append(evaluators, resilient(critic.NewRemoteJudge(name, endpoint, nil)))
	}
	registry, err := critic.NewRegistry(evaluators...)
	if err != nil {
		return fmt.Errorf("build critic registry: %w", err)
	}

	criticRunner := runner.New(runner.Config{
		MaxParallelism: cfg.Pipeline.MaxParallelism,
		Timeout:        cfg.Pipeline.CriticTimeout,
		WeightFor:      cfg.Pipeline.WeightFor,
		PriorityFor:    cfg.Pipeline.PriorityFor,
	}, log, criticMetrics)

	aggregator := aggregate.New(cfg.Pipeline.Rules, cfg.Pipeline.AmbiguityThreshold)
	decisionCache := cache.New(cacheStore, cfg.Pipeline.CacheTTL, cfg.Pipeline.Fingerprint(), log, cacheMetrics)
	ledgerSvc := ledger.NewService(ledgerStore, keyring, log, ledgermetrics.New(), ledgerOpts...)
	precedentSvc := precedent.New(precedentStore, log)

	var publisher audit.Publisher = audit.NopPublisher{}
	if cfg.KafkaBroker != "" {
		kafkaPub, err := audit.NewKafkaPublisher(cfg.KafkaBroker, cfg.KafkaTopic, log)
		if err != nil {
			return err
		}
		publisher = kafkaPub
		log.Info("audit events publishing to kafka", "topic", cfg.KafkaTopic)
	}
	defer publisher.Close()

	worker := audit.NewWorker(publisher, 256, log)
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	go worker.Run(workerCtx)

	svc := adjudicate.NewService(
		registry, criticRunner, aggregator, decisionCache, ledgerSvc, precedentSvc, worker,
		log, adjudicatemetrics.New(),
	)

	var verifier *auth.Verifier
	if cfg.JWTSigningKey != "" {
		verifier = auth.NewVerifier([]byte(cfg.JWTSigningKey), log)
	} else {
		log.Warn("no JWT signing key configured, audit endpoints are unauthenticated")
	}

	router := httpapi.NewRouter(httpapi.Deps{
		Adjudicate: adjudicatehandler.New(svc, log),
		Ledger:     ledgerhandler.New(ledgerSvc, log),
		Auth:       verifier,
		Health: func() error {
			if redisClient != nil {
				return redisClient.Health(context.Background())
			}
			return nil
		},
		Logger: log,
	})

	srv := httpserver.New(cfg.Addr, router)

	go flushSpillLoop(ctx, ledgerSvc, log)

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.Addr, "critics", registry.Len(), "pipeline_version", cfg.Pipeline.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}

	stopWorker()
	worker.Wait()

	if err := ledgerSvc.FlushSpill(shutdownCtx); err != nil {
		log.Error("ledger spill not fully flushed", "error", err)
	}
	return nil
}

// flushSpillLoop periodically retries spilled ledger entries so a transient
// store outage drains without operator action.
func flushSpillLoop(ctx context.Context, svc *ledger.Service, log *slog.Logger) {
	ticker := time.NewTicker(spillFlushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := svc.FlushSpill(ctx); err != nil {
				log.WarnContext(ctx, "ledger spill flush incomplete", "error", err)
			}
		}
	}
}
