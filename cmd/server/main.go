package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/aryan0dhankhar/sitebook/internal/featureflags"
	"github.com/aryan0dhankhar/sitebook/internal/handler"
	"github.com/aryan0dhankhar/sitebook/internal/infrastructure/logger"
	"github.com/aryan0dhankhar/sitebook/internal/observability/tracing"
	"github.com/aryan0dhankhar/sitebook/internal/reliability/circuitbreaker"
	"github.com/aryan0dhankhar/sitebook/internal/security"
	"github.com/aryan0dhankhar/sitebook/internal/security/audit"
	"github.com/aryan0dhankhar/sitebook/internal/security/auth"
	"github.com/aryan0dhankhar/sitebook/internal/security/ratelimit"
	"github.com/aryan0dhankhar/sitebook/internal/service"
	"github.com/aryan0dhankhar/sitebook/pkg/config"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize structured logger
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("starting sitebook server",
		slog.String("environment", cfg.Environment),
		slog.String("store", cfg.StoreBackend),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Tracing
	shutdownTracing, err := tracing.Init(ctx, log, cfg.OTLPEndpoint, "sitebook", cfg.Environment)
	if err != nil {
		log.Error("failed to initialize tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Record store
	be, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer be.close()

	// 5. Services
	flags := featureflags.Snapshot()
	log.Info("feature flags", slog.Any("flags", flags))

	auditLogger := audit.NewLogger(log)
	opts := service.Options{
		Logger:    log,
		Audit:     auditLogger,
		Guard:     security.NewOwnershipGuard(log, auditLogger),
		ListLimit: cfg.ListLimit,
		Strict:    flags[featureflags.StrictValidation],
	}
	if cfg.JWTSecret == "" {
		log.Warn("JWT_SECRET not set; using development secret")
	}
	tokenManager := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	rateLimiter := ratelimit.NewLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	defer rateLimiter.Stop()

	storeBreaker := circuitbreaker.NewCircuitBreaker(3, 1, 15*time.Second)
	storeBreaker.OnStateChange(func(from, to circuitbreaker.State) {
		log.Warn("store health breaker changed state",
			slog.String("from", from.String()),
			slog.String("to", to.String()),
		)
	})

	// 6. HTTP routes
	router := handler.NewRouter(handler.Deps{
		Logger:      log,
		Auth:        service.NewAuthService(be.store.Users, tokenManager, log),
		Projects:    service.NewProjectService(be.store, opts),
		Workers:     service.NewWorkerService(be.store, opts),
		Expenses:    service.NewExpenseService(be.store, opts),
		Incomes:     service.NewIncomeService(be.store, opts),
		WorkLogs:    service.NewWorkLogService(be.store, opts),
		Reports:     service.NewReportService(be.store, log, nil),
		Limiter:     rateLimiter,
		CORSOrigins: cfg.CORSAllowedOrigins,
		Ready: map[string]handler.Pinger{
			cfg.StoreBackend: handler.PingFunc(func(ctx context.Context) error {
				return storeBreaker.Call(ctx, be.ping.Ping)
			}),
		},
	})

	// 7. Start HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      otelhttp.NewHandler(router, "sitebook"),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("server starting",
		slog.Int("port", cfg.ServerPort),
		slog.String("auth", "jwt"),
		slog.Float64("rate_limit_rps", cfg.RateLimitRPS),
		slog.Int("rate_limit_burst", cfg.RateLimitBurst),
	)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", slog.String("error", err.Error()))
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", slog.String("error", err.Error()))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("tracing shutdown error", slog.String("error", err.Error()))
	}
	log.Info("server stopped")
}
