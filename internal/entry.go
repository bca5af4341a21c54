// Package internal provides the main application initialization and runtime logic.
package internal

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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/veldt/callsheet/internal/api"
	"github.com/veldt/callsheet/internal/crm"
	"github.com/veldt/callsheet/internal/localstate"
	"github.com/veldt/callsheet/internal/mcpserver"
	"github.com/veldt/callsheet/internal/models"
	"github.com/veldt/callsheet/internal/planservice"
	"github.com/veldt/callsheet/internal/poll"
	"github.com/veldt/callsheet/internal/queue"
	"github.com/veldt/callsheet/internal/sse"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("crm_base_url", cfg.CRM.BaseURL),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Initialize local state.
	state, err := localstate.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init local state: %w", err)
	}
	defer state.Close()

	// CRM backend client and work queue.
	backend := crm.NewClient(cfg.CRM.BaseURL, cfg.CRM.Token, cfg.CRM.Timeout)
	store := queue.NewStore()
	svc := planservice.NewService(backend, store, state)

	if app.mcpStdio {
		logger.Info("Starting MCP stdio server")
		return mcpserver.New(svc).ServeStdio()
	}

	// SSE broker bridged to queue mutations.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()
	queueEvents := store.Subscribe()
	go broker.Forward(queueEvents)

	// Stats poller feeds both the stats endpoint and SSE clients.
	statsPoller := poll.NewStats(backend, cfg.Poll.StatsInterval, func(s models.CallStats) {
		broker.Publish(sse.Event{Type: "stats.updated", Data: s})
	})
	planPoller := poll.NewPlan(backend, store, cfg.Poll.PlanInterval)

	// Load the day plan; a backend outage at boot is not fatal, the
	// operator can re-load from the dashboard.
	if _, err := svc.LoadDay(ctx); err != nil {
		logger.Warn("initial plan load failed", slog.String("error", err.Error()))
	}

	// Build API router.
	apiRouter := api.NewRouter(svc, statsPoller, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Fixed-interval refresh loops.
	g.Go(func() error {
		statsPoller.Run(gCtx, logger)
		return nil
	})
	g.Go(func() error {
		planPoller.Run(gCtx, logger)
		return nil
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		store.Unsubscribe(queueEvents)
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
