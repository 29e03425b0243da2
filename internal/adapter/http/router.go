package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/iho/bonusledger/internal/adapter/http/handler"
	"github.com/iho/bonusledger/internal/adapter/http/middleware"
	"github.com/iho/bonusledger/internal/domain"
	"github.com/iho/bonusledger/internal/infrastructure/auth"
	"github.com/iho/bonusledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	EventHandler     *handler.EventHandler
	DocumentHandler  *handler.DocumentHandler
	AccountHandler   *handler.AccountHandler
	StatementHandler *handler.StatementHandler
	RoleHandler      *handler.RoleHandler
	LedgerHandler    *handler.LedgerHandler
	HealthHandler    *handler.HealthHandler

	// Optional
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	JWTManager       *auth.JWTManager
	MetricsHandler   http.Handler
	CORSOrigins      []string
	Logger           zerolog.Logger
}

// NewRouter creates a new HTTP router. Without a JWTManager every API route
// is open and role gates are skipped.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Metrics)

	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.IdempotencyKeyHeader},
			ExposedHeaders:   []string{"X-Idempotency-Replay"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.JWTManager != nil {
			r.Use(middleware.AuthMiddleware(cfg.JWTManager))
		}

		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore).WithTTL(cfg.IdempotencyTTL)
			r.Use(idempotencyMiddleware.Wrap)
		}

		operator := middleware.RequireRole(domain.RoleOperator)
		admin := middleware.RequireRole(domain.RoleAdmin)

		// Events
		r.With(operator).Post("/events", cfg.EventHandler.Post)

		// Documents
		r.With(admin).Delete("/documents/{documentID}", cfg.DocumentHandler.Delete)

		// Accounts
		r.Route("/accounts", func(r chi.Router) {
			r.With(operator).Post("/", cfg.AccountHandler.Register)
			r.With(operator).Get("/", cfg.AccountHandler.List)
			r.With(operator).Get("/{id}", cfg.AccountHandler.Get)
			r.With(operator).Get("/{id}/entries", cfg.AccountHandler.Entries)
			r.With(operator).Get("/{id}/statement", cfg.StatementHandler.Get)
			r.With(operator).Get("/{id}/reconciliation", cfg.LedgerHandler.Reconcile)
			r.With(admin).Post("/{id}/rebuild", cfg.LedgerHandler.Rebuild)
			r.With(admin).Post("/{id}/roles", cfg.RoleHandler.Grant)
			r.With(admin).Delete("/{id}/roles", cfg.RoleHandler.Revoke)
		})

		// Ledger
		r.Route("/ledger", func(r chi.Router) {
			r.With(operator).Get("/consistency", cfg.LedgerHandler.CheckConsistency)
			r.With(admin).Get("/reconciliation", cfg.LedgerHandler.Report)
		})
	})

	return r
}
