package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/failsafe-go/failsafe-go/circuitbreaker"
	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/waitlist/internal/adapter/backend"
	"github.com/pscheid92/waitlist/internal/adapter/breaker"
	"github.com/pscheid92/waitlist/internal/adapter/httpserver"
	"github.com/pscheid92/waitlist/internal/adapter/metrics"
	"github.com/pscheid92/waitlist/internal/app"
	"github.com/pscheid92/waitlist/internal/platform/config"
	"github.com/pscheid92/waitlist/internal/platform/logging"
	"github.com/pscheid92/waitlist/internal/platform/version"
)

func runGracefulShutdown(srv *httpserver.Server, timeout time.Duration) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		close(done)
	}()

	return done
}

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupBackend(cfg *config.Config) *backend.Backend {
	b, err := backend.Open(cfg)
	if err != nil {
		slog.Error("Failed to open sheet backend", "backend", cfg.SheetBackend, "error", err)
		os.Exit(1)
	}
	return b
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	// Initialize structured logging
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting",
		"env", cfg.AppEnv,
		"port", cfg.Port,
		"backend", cfg.SheetBackend,
		"version", version.Get().String(),
	)

	store := setupBackend(cfg)
	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("Failed to close sheet backend", "error", err)
		}
	}()

	reg := metrics.NewRegistry(store.Name)
	sheetMetrics := metrics.NewSheetMetrics(reg)
	breakerMetrics := metrics.NewBreakerMetrics(reg)

	cb := breaker.New(breaker.DefaultConfig(), func(_, to circuitbreaker.State) {
		breakerMetrics.RecordState(to.String(), breaker.StateValue(to))
	})
	connector := cb.Connector(sheetMetrics.Connector(store.Connector))

	appSvc := app.NewService(connector, clock,
		app.WithLocation(cfg.Location()),
		app.WithDefaultActor(cfg.DefaultActor),
		app.WithOutcomeRecorder(metrics.NewWaitlistMetrics(reg)),
	)

	healthChecks := []httpserver.HealthCheck{
		{Name: "sheet_breaker", Check: cb.Check},
		{Name: "sheet_store", Check: appSvc.Ping, Startup: true},
	}

	srv, err := httpserver.NewServer(cfg, appSvc, reg, healthChecks)
	if err != nil {
		slog.Error("Failed to create server", "error", err)
		os.Exit(1)
	}

	done := runGracefulShutdown(srv, cfg.ShutdownTimeout)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
