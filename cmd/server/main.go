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

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"courtside/internal/adapters/analyzer"
	emailPkg "courtside/internal/adapters/email"
	web "courtside/internal/adapters/http"
	"courtside/internal/adapters/http/middleware"
	"courtside/internal/adapters/scheduler"
	"courtside/internal/adapters/storage"
	accountStore "courtside/internal/adapters/storage/account"
	analysisStore "courtside/internal/adapters/storage/analysis"
	outboxStore "courtside/internal/adapters/storage/outbox"
	planStore "courtside/internal/adapters/storage/plan"
	playerStore "courtside/internal/adapters/storage/player"
	sessionStore "courtside/internal/adapters/storage/session"
	"courtside/internal/application/coordinator"
	"courtside/internal/application/orchestrators"
	"courtside/internal/config"
	"courtside/pkg/metrics"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

// devCoachPassword seeds the coach account outside production when none is configured.
const devCoachPassword = "courtside-dev"

// coordinatorIdle is how long an unused schedule view is kept.
const coordinatorIdle = 2 * time.Hour

func main() {
	if err := run(); err != nil {
		slog.Error("server_event", "event", "fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	setupLogging(cfg)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	csrfKey, err := cfg.CSRFAuthKey()
	if err != nil {
		return err
	}

	// WAL mode, foreign keys, and busy timeout
	dsn := cfg.DBPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}
	if err := storage.MigrateDB(db, cfg.DBPath); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	mgr := metrics.NewManager()
	timedDB := storage.NewTimedDB(db, mgr, cfg.SlowQuery())

	stores := &web.Stores{
		AccountStore:  accountStore.NewSQLiteStore(timedDB),
		PlayerStore:   playerStore.NewSQLiteStore(timedDB),
		SessionStore:  sessionStore.NewSQLiteStore(timedDB),
		AnalysisStore: analysisStore.NewSQLiteStore(timedDB),
		PlanStore:     planStore.NewSQLiteStore(timedDB),
		OutboxStore:   outboxStore.NewSQLiteStore(timedDB),
	}
	generateID := func() string { return uuid.New().String() }

	if err := seed(ctx, cfg, stores, loc, generateID); err != nil {
		return err
	}

	var sender emailPkg.Sender
	if cfg.ResendKey != "" {
		sender = emailPkg.NewResendSender(cfg.ResendKey, cfg.EmailFrom, cfg.ReplyTo)
		slog.Info("server_event", "event", "email_sender", "sender", "resend")
	} else {
		sender = emailPkg.NewNoopSender()
		if cfg.IsProduction() {
			slog.Warn("server_event", "event", "email_sender", "sender", "noop", "reason", "resend_key not set, email delivery is disabled")
		} else {
			slog.Info("server_event", "event", "email_sender", "sender", "noop")
		}
	}

	runner := orchestrators.NewAnalysisRunner(orchestrators.AnalysisRunnerDeps{
		AnalysisStore: stores.AnalysisStore,
		PlayerLookup:  stores.PlayerStore,
		Analyzer:      analyzer.NewMock(cfg.AnalysisDelay(), uint64(time.Now().UnixNano())),
		Metrics:       mgr,
		Timeout:       cfg.AnalysisTimeout(),
		GenerateID:    generateID,
		Now:           time.Now,
	})
	defer runner.Close()

	outbox := orchestrators.NewOutboxProcessor(
		stores.OutboxStore,
		orchestrators.EmailExecutors(&orchestrators.EmailExecutor{Sender: sender}),
		mgr,
		time.Now,
	)

	sessions := middleware.NewSessionStore(time.Now)
	coordinators := coordinator.NewRegistry(coordinator.Options{
		Now:            time.Now,
		Location:       loc,
		MaxMonthsAhead: cfg.MaxMonthsAhead,
	})
	limiter := middleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst)

	jobs, err := startJobs(cfg, stores, outbox, sessions, coordinators, limiter)
	if err != nil {
		return err
	}
	defer jobs.Stop()

	srv := web.NewServer(stores, web.Services{
		Sessions:     sessions,
		Coordinators: coordinators,
		Limiter:      limiter,
		Analyses:     runner,
		Outbox:       outbox,
		Metrics:      mgr,
		Health:       db.PingContext,
	}, web.Options{
		Location:       loc,
		CSRFKey:        csrfKey,
		Secure:         cfg.IsProduction(),
		AllowedOrigins: cfg.AllowedOrigins(),
		SlowRequest:    cfg.SlowRequest(),
		Now:            time.Now,
		GenerateID:     generateID,
	})

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server_event", "event", "listening",
			"version", version, "addr", cfg.Addr, "env", cfg.Env,
			"schema", storage.LatestSchemaVersion(), "timezone", loc.String())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("server_event", "event", "shutting_down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func setupLogging(cfg *config.Config) {
	level, _ := config.ParseLogLevel(cfg.LogLevel)
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// seed creates the coach account on an empty database and, when enabled,
// the sample roster.
func seed(ctx context.Context, cfg *config.Config, stores *web.Stores, loc *time.Location, generateID func() string) error {
	password := cfg.CoachPassword
	if password == "" {
		password = devCoachPassword
		slog.Warn("server_event", "event", "dev_coach_password", "email", cfg.CoachEmail)
	}
	acctDeps := orchestrators.CreateAccountDeps{
		AccountStore: stores.AccountStore,
		GenerateID:   generateID,
		Now:          time.Now,
	}
	if err := orchestrators.ExecuteEnsureCoachAccount(ctx, acctDeps, cfg.CoachEmail, password); err != nil {
		return fmt.Errorf("seed coach: %w", err)
	}

	if !cfg.SeedSamples {
		return nil
	}
	sampleDeps := orchestrators.SeedSamplesDeps{
		PlayerStore:  stores.PlayerStore,
		SessionStore: stores.SessionStore,
		GenerateID:   generateID,
		Now:          time.Now,
		Location:     loc,
	}
	if err := orchestrators.ExecuteSeedSamples(ctx, sampleDeps); err != nil {
		return fmt.Errorf("seed samples: %w", err)
	}
	return nil
}

// startJobs registers the maintenance jobs and starts the scheduler.
func startJobs(
	cfg *config.Config,
	stores *web.Stores,
	outbox *orchestrators.OutboxProcessor,
	sessions *middleware.SessionStore,
	coordinators *coordinator.Registry,
	limiter *middleware.RateLimiter,
) (*scheduler.Scheduler, error) {
	s := scheduler.New(time.Minute)

	jobs := []struct {
		name, spec string
		job        scheduler.Job
	}{
		{"outbox", "0 * * * * *", outbox.ProcessPending},
		{"stale_analyses", "30 * * * * *", func(ctx context.Context) (int, error) {
			return orchestrators.ExecuteSweepStaleAnalyses(ctx, orchestrators.SweepStaleAnalysesDeps{
				AnalysisStore: stores.AnalysisStore,
				MaxAge:        cfg.AnalysisStaleAfter(),
				Now:           time.Now,
			})
		}},
		{"auth_sessions", "0 */5 * * * *", func(context.Context) (int, error) {
			expired := sessions.Sweep()
			for _, token := range expired {
				coordinators.Drop(token)
			}
			return len(expired), nil
		}},
		{"coordinators", "0 */10 * * * *", func(context.Context) (int, error) {
			return coordinators.Sweep(coordinatorIdle), nil
		}},
		{"rate_limiter", "0 */10 * * * *", func(context.Context) (int, error) {
			return limiter.Cleanup(), nil
		}},
	}
	for _, j := range jobs {
		if err := s.Add(j.name, j.spec, j.job); err != nil {
			return nil, err
		}
	}
	s.Start()
	return s, nil
}
