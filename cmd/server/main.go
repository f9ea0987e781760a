package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	httpAdapter "github.com/iho/storeledger/internal/adapter/http"
	"github.com/iho/storeledger/internal/adapter/http/handler"
	apimiddleware "github.com/iho/storeledger/internal/adapter/http/middleware"
	memoryRepo "github.com/iho/storeledger/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/storeledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/storeledger/internal/adapter/repository/redis"
	"github.com/iho/storeledger/internal/infrastructure/config"
	"github.com/iho/storeledger/internal/infrastructure/logger"
	"github.com/iho/storeledger/internal/infrastructure/metrics"
	"github.com/iho/storeledger/internal/infrastructure/postgres"
	"github.com/iho/storeledger/internal/infrastructure/redis"
	"github.com/iho/storeledger/internal/usecase"
)

const (
	cacheSweepInterval   = time.Minute
	limiterCleanupPeriod = 10 * time.Minute
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var migrate bool

	rootCmd := &cobra.Command{
		Use:          "storeledger-server",
		Short:        "StoreLedger HTTP server",
		Long:         `Serves account statements and financial reports for clients, suppliers and branches.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, l, err := setup()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, l, migrate)
		},
	}
	rootCmd.Flags().BoolVar(&migrate, "migrate", true, "Apply database migrations on start (postgres driver)")

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migrations",
	}
	migrateCmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, _, err := setup()
				if err != nil {
					return err
				}
				return postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back all migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, _, err := setup()
				if err != nil {
					return err
				}
				return postgres.RunMigrationsDown(cfg.DatabaseURL, cfg.MigrationsPath)
			},
		},
	)
	rootCmd.AddCommand(migrateCmd)

	return rootCmd
}

// setup loads configuration and installs the global logger.
func setup() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load configuration")
		return nil, zerolog.Nop(), err
	}

	l := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = l
	zerolog.DefaultContextLogger = &l

	return cfg, l, nil
}

func serve(ctx context.Context, cfg *config.Config, l zerolog.Logger, migrate bool) error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	a, err := newApp(ctx, cfg, l, registry, migrate)
	if err != nil {
		l.Error().Err(err).Msg("failed to start")
		return err
	}
	defer a.Close()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      a.handler,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		l.Info().Str("port", cfg.HTTPPort).Str("storage", cfg.StorageDriver).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			l.Error().Err(err).Msg("server failed")
			return err
		}
	case <-ctx.Done():
	}

	l.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		l.Error().Err(err).Msg("server forced to shutdown")
		return err
	}

	l.Info().Msg("server stopped")
	return nil
}

// app is the wired service.
type app struct {
	handler http.Handler
	closers []func()
}

// Close releases connections and stops background work in reverse order.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

type storage struct {
	txManager  usecase.TransactionManager
	entityRepo usecase.EntityRepository
	recordRepo usecase.RecordRepository
	retrier    usecase.Retrier
}

func newApp(ctx context.Context, cfg *config.Config, l zerolog.Logger, registry *prometheus.Registry, migrate bool) (*app, error) {
	a := &app{}
	bg, cancel := context.WithCancel(context.Background())
	a.closers = append(a.closers, cancel)

	m := metrics.NewWithRegistry(registry)

	var checks []handler.NamedCheck

	var st storage
	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		store := memoryRepo.NewStore()
		st = storage{
			txManager:  memoryRepo.NewTxManager(store),
			entityRepo: memoryRepo.NewEntityRepository(store),
			recordRepo: memoryRepo.NewRecordRepository(store),
		}
		l.Warn().Msg("using in-memory storage, data is lost on restart")
	default:
		if migrate {
			if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
				a.Close()
				return nil, fmt.Errorf("failed to run migrations: %w", err)
			}
		}

		pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
			DatabaseURL:    cfg.DatabaseURL,
			MaxConns:       cfg.DatabaseMaxConns,
			MinConns:       cfg.DatabaseMinConns,
			ConnectTimeout: cfg.DatabaseTimeout,
		})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		a.closers = append(a.closers, pool.Close)
		l.Info().Msg("connected to postgres")

		st = storage{
			txManager:  postgresRepo.NewTxManager(pool),
			entityRepo: postgresRepo.NewEntityRepository(pool),
			recordRepo: postgresRepo.NewRecordRepository(pool),
			retrier:    postgresRepo.NewRetrier(l),
		}
		checks = append(checks, handler.NamedCheck{Name: "postgres", Checker: pool})
	}

	// Statement cache and idempotency store: redis when reachable, else
	// process-local.
	var cache usecase.Cache
	var idempotency usecase.IdempotencyStore
	if cfg.CacheEnabled {
		client, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			l.Warn().Err(err).Msg("redis unavailable, falling back to in-process cache")
		} else {
			a.closers = append(a.closers, func() { client.Close() })
			l.Info().Msg("connected to redis")

			cache = redisRepo.NewCache(client)
			idempotency = redisRepo.NewIdempotencyStore(client)
			checks = append(checks, handler.NamedCheck{
				Name:    "redis",
				Checker: handler.CheckFunc(func(ctx context.Context) error { return client.Ping(ctx).Err() }),
			})
		}
	}
	if idempotency == nil {
		local := memoryRepo.NewCache()
		go local.RunSweeper(bg, cacheSweepInterval)
		if cfg.CacheEnabled {
			cache = local
		}
		idempotency = memoryRepo.NewIdempotencyStore(local)
	}

	idGen := postgresRepo.NewULIDGenerator()

	entityUC := usecase.NewEntityUseCase(st.entityRepo, idGen)
	recordUC := usecase.NewRecordUseCase(st.txManager, st.entityRepo, st.recordRepo, idGen, st.retrier, m, l)
	statementUC := usecase.NewStatementUseCase(st.entityRepo, st.recordRepo, cache, cfg.StatementCacheTTL, m, l)
	reportUC := usecase.NewReportUseCase(st.recordRepo, m, l)
	reconciliationUC := usecase.NewReconciliationUseCase(st.entityRepo, st.recordRepo)

	var limiter *apimiddleware.RateLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = apimiddleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).WithMetrics(m)
		go cleanupLimiters(bg, limiter)
	}

	a.handler = httpAdapter.NewRouter(httpAdapter.RouterConfig{
		EntityHandler:    handler.NewEntityHandler(entityUC),
		StatementHandler: handler.NewStatementHandler(statementUC, reconciliationUC),
		RecordHandler:    handler.NewRecordHandler(recordUC),
		ReportHandler:    handler.NewReportHandler(reportUC),
		HealthHandler:    handler.NewHealthHandler(checks...),
		IdempotencyStore: idempotency,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      limiter,
		Metrics:          m,
		MetricsHandler:   promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		Logger:           l,
	})

	return a, nil
}

func cleanupLimiters(ctx context.Context, limiter *apimiddleware.RateLimiter) {
	ticker := time.NewTicker(limiterCleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.CleanupLimiters(limiterCleanupPeriod)
		}
	}
}
