package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/bonusledger/internal/adapter/http"
	"github.com/iho/bonusledger/internal/adapter/http/handler"
	"github.com/iho/bonusledger/internal/adapter/http/middleware"
	"github.com/iho/bonusledger/internal/adapter/messaging"
	"github.com/iho/bonusledger/internal/adapter/notifier"
	"github.com/iho/bonusledger/internal/adapter/renderer"
	"github.com/iho/bonusledger/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/bonusledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/bonusledger/internal/adapter/repository/redis"
	"github.com/iho/bonusledger/internal/infrastructure/auth"
	"github.com/iho/bonusledger/internal/infrastructure/config"
	"github.com/iho/bonusledger/internal/infrastructure/logger"
	"github.com/iho/bonusledger/internal/infrastructure/metrics"
	"github.com/iho/bonusledger/internal/infrastructure/notification"
	"github.com/iho/bonusledger/internal/infrastructure/postgres"
	"github.com/iho/bonusledger/internal/infrastructure/redis"
	"github.com/iho/bonusledger/internal/usecase"
)

// limiterIdleTTL is how long an idle client keeps its rate limit bucket.
const limiterIdleTTL = time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	lg := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = lg

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, lg); err != nil {
		lg.Fatal().Err(err).Msg("server failed")
	}
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	a, err := newApp(ctx, cfg, logger, prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
	if err != nil {
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
		logger.Info().Str("port", cfg.HTTPPort).Str("store", cfg.StoreDriver).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info().Msg("server stopped")
	return nil
}

// app is the wired server: the HTTP handler plus everything that must be
// released on shutdown, in reverse order of acquisition.
type app struct {
	handler http.Handler
	closers []func()
}

func (a *app) onClose(f func()) {
	a.closers = append(a.closers, f)
}

// Close releases resources in reverse order.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// store bundles the repositories of one storage driver.
type store struct {
	txManager usecase.TransactionManager
	accounts  usecase.AccountRepository
	entries   usecase.EntryRepository
	ledger    usecase.LedgerRepository
	retrier   usecase.Retrier
}

func newApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger, reg prometheus.Registerer, gatherer prometheus.Gatherer) (a *app, err error) {
	a = &app{}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	health := handler.NewHealthHandler()

	st, err := openStore(ctx, cfg, logger, a, health)
	if err != nil {
		return nil, err
	}

	m := metrics.New(reg)

	opts := []usecase.Option{
		usecase.WithLogger(logger),
		usecase.WithMetrics(m),
		usecase.WithLocation(loc),
	}
	if st.retrier != nil {
		opts = append(opts, usecase.WithRetrier(st.retrier))
	}

	// Redis (optional)
	var idempotencyStore usecase.IdempotencyStore
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.onClose(func() { client.Close() })
		logger.Info().Msg("connected to redis")

		idempotencyStore = redisRepo.NewIdempotencyStore(client)
		opts = append(opts, usecase.WithLookupCache(redisRepo.NewAccountLookupCache(client, cfg.LookupTTL)))
		health.WithCheck("redis", handler.PingFunc(func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}))
	}

	// NATS (optional)
	var (
		nc *nats.Conn
		js jetstream.JetStream
	)
	if cfg.NATSURL != "" {
		nc, js, err = messaging.Connect(cfg.NATSURL, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to nats: %w", err)
		}
		a.onClose(nc.Close)
		health.WithCheck("nats", handler.PingFunc(func(context.Context) error {
			if !nc.IsConnected() {
				return nats.ErrConnectionClosed
			}
			return nil
		}))
	}

	// Notifications
	transport, err := newTransport(cfg, logger, nc, a)
	if err != nil {
		return nil, err
	}
	if transport != nil {
		dispatcher := notification.NewDispatcher(notification.Config{
			Transport:  transport,
			Metrics:    m,
			Logger:     logger.With().Str("component", "notifier").Logger(),
			QueueSize:  cfg.NotifierQueueSize,
			Workers:    cfg.NotifierWorkers,
			Timeout:    cfg.NotifierTimeout,
			MaxRetries: cfg.NotifierMaxRetries,
		})
		dispatcher.Start(context.WithoutCancel(ctx))
		a.onClose(dispatcher.Close)
		opts = append(opts, usecase.WithNotifier(dispatcher))
	}

	// Use cases
	ids := postgresRepo.NewULIDGenerator()
	projectionUC := usecase.NewProjectionUseCase(st.txManager, st.accounts, st.entries, st.ledger, opts...)
	postingUC := usecase.NewPostingUseCase(st.txManager, st.accounts, st.entries, ids, opts...)
	reversalUC := usecase.NewReversalUseCase(st.txManager, st.accounts, st.entries, opts...).
		WithConcurrency(cfg.ReversalConcurrency)
	statementUC := usecase.NewStatementUseCase(st.txManager, st.accounts, st.entries, renderer.NewTextRenderer(), cfg.StatementPageSize, opts...)
	accountUC := usecase.NewAccountUseCase(st.txManager, st.accounts, projectionUC, ids, opts...)
	roleUC := usecase.NewRoleUseCase(st.txManager, st.accounts, opts...)
	entryUC := usecase.NewEntryUseCase(st.accounts, st.entries)

	// Ingress
	if js != nil {
		consumer := messaging.NewConsumer(js, postingUC, reversalUC, m, logger.With().Str("component", "ingress").Logger(), messaging.Config{
			Stream:  cfg.NATSStream,
			Durable: cfg.NATSConsumerName,
		})
		if err := consumer.Start(ctx); err != nil {
			return nil, err
		}
		a.onClose(consumer.Stop)
	}

	// HTTP
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).WithRecorder(m)
	go cleanupLimiters(ctx, rateLimiter)

	var jwtManager *auth.JWTManager
	if cfg.AuthEnabled {
		jwtManager = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	}

	a.handler = httpAdapter.NewRouter(httpAdapter.RouterConfig{
		EventHandler:     handler.NewEventHandler(postingUC),
		DocumentHandler:  handler.NewDocumentHandler(reversalUC),
		AccountHandler:   handler.NewAccountHandler(accountUC, entryUC),
		StatementHandler: handler.NewStatementHandler(statementUC),
		RoleHandler:      handler.NewRoleHandler(roleUC),
		LedgerHandler:    handler.NewLedgerHandler(projectionUC),
		HealthHandler:    health,
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      rateLimiter,
		JWTManager:       jwtManager,
		MetricsHandler:   promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}),
		CORSOrigins:      cfg.CORSAllowedOrigins,
		Logger:           logger,
	})

	return a, nil
}

func openStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger, a *app, health *handler.HealthHandler) (*store, error) {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		logger.Warn().Msg("using in-memory store; data is lost on restart")
		s := memory.NewStore()
		return &store{
			txManager: memory.NewTxManager(s),
			accounts:  memory.NewAccountRepository(s),
			entries:   memory.NewEntryRepository(s),
			ledger:    memory.NewLedgerRepository(s),
		}, nil

	case config.StorePostgres:
		if cfg.DatabaseAutoMigrate {
			if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
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
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		a.onClose(pool.Close)
		logger.Info().Msg("connected to postgres")
		health.WithCheck("postgres", pool)

		return &store{
			txManager: postgresRepo.NewTxManager(pool),
			accounts:  postgresRepo.NewAccountRepository(pool),
			entries:   postgresRepo.NewEntryRepository(pool),
			ledger:    postgresRepo.NewLedgerRepository(pool),
			retrier:   postgresRepo.NewRetrier(logger),
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// newTransport picks the notification transport. It returns nil when
// notifications are disabled.
func newTransport(cfg *config.Config, logger zerolog.Logger, nc *nats.Conn, a *app) (notification.Transport, error) {
	switch cfg.NotifierDriver {
	case config.NotifierNone:
		return nil, nil
	case config.NotifierLog:
		return notifier.NewLogTransport(logger), nil
	case config.NotifierNATS:
		if nc == nil {
			return nil, errors.New("nats notifier requires a NATS connection")
		}
		return notifier.NewNATSTransport(nc), nil
	case config.NotifierKafka:
		t := notifier.NewKafkaTransport(notifier.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTopic, logger))
		a.onClose(func() {
			if err := t.Close(); err != nil {
				logger.Warn().Err(err).Msg("failed to close kafka writer")
			}
		})
		return t, nil
	default:
		return nil, fmt.Errorf("unknown notifier driver %q", cfg.NotifierDriver)
	}
}

func cleanupLimiters(ctx context.Context, rl *middleware.RateLimiter) {
	ticker := time.NewTicker(limiterIdleTTL)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.CleanupLimiters(limiterIdleTTL)
		}
	}
}
