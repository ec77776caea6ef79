// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/noteshub/internal/api"
	"github.com/starford/noteshub/internal/mcpserver"
	"github.com/starford/noteshub/internal/models"
	"github.com/starford/noteshub/internal/noteservice"
	"github.com/starford/noteshub/internal/notes"
	"github.com/starford/noteshub/internal/seed"
	"github.com/starford/noteshub/internal/session"
	"github.com/starford/noteshub/internal/sse"
	"github.com/starford/noteshub/internal/storage"
	"github.com/starford/noteshub/internal/upload"
)

// components is everything both entry points share.
type components struct {
	logger *slog.Logger
	slots  storage.Provider
	broker *sse.Broker
	svc    *noteservice.Service
}

func (c *components) Close() {
	c.broker.Close()
	if err := c.slots.Close(); err != nil {
		c.logger.Warn("closing session slots failed", slog.String("error", err.Error()))
	}
}

func setup(ctx context.Context, opts []Option) (*application, *components, error) {
	app := &application{logOutput: os.Stdout}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, nil, fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(app.logOutput, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("session_backend", cfg.Session.Backend),
		slog.String("session_path", cfg.Session.Path),
		slog.String("seed_path", cfg.Seed.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Initialize session slots.
	slots, err := storage.Open(cfg.Session.Backend, cfg.Session.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("init session storage: %w", err)
	}

	broker := sse.NewBroker(cfg.Events.Throttle)
	c := &components{logger: logger, slots: slots, broker: broker}

	sessions := session.New(slots,
		session.WithKey(cfg.Session.Key),
		session.WithLogger(logger),
		session.OnChange(func(u *models.User) {
			broker.Publish(sse.Event{Type: sse.EventSessionChanged, Data: map[string]any{"user": u}})
		}),
	)
	if err := sessions.Restore(ctx); err != nil {
		c.Close()
		return nil, nil, fmt.Errorf("restore session: %w", err)
	}

	ds, err := seed.LoadFile(cfg.Seed.Path)
	if err != nil {
		c.Close()
		return nil, nil, fmt.Errorf("load seed: %w", err)
	}
	repo := notes.New(ds.Notes)
	logger.Info("Notes loaded", slog.Int("count", repo.Len()))

	uploads := upload.NewService(repo, sessions, upload.Config{
		MaxBytes:        cfg.Upload.MaxBytes,
		UploadLatency:   cfg.Upload.UploadLatency,
		DownloadLatency: cfg.Upload.DownloadLatency,
	}, logger)

	c.svc = noteservice.NewService(repo, sessions, uploads, ds.FilterOptions,
		noteservice.WithPublisher(broker),
		noteservice.WithLogger(logger),
	)
	return app, c, nil
}

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, c, err := setup(ctx, opts)
	if err != nil {
		return err
	}
	defer c.Close()

	cfg := app.config
	logger := c.logger

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints.
	r.Get("/health/live", healthHandler)
	r.Get("/health/ready", healthHandler)

	// Mount API routes under /api.
	r.Mount("/api", api.NewRouter(c.svc, c.broker))

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	runCtx, stop := context.WithCancel(ctx)
	defer stop()
	g, gCtx := errgroup.WithContext(runCtx)

	// Reload the session when another process rewrites its slot.
	if cfg.Session.WatchEnabled() {
		sessions := c.svc.Sessions()
		g.Go(func() error {
			err := storage.Watch(gCtx, cfg.Session.Path, storage.DefaultDebounce, logger, func(kind, key string) {
				if key != sessions.Key() {
					return
				}
				if err := sessions.Reload(gCtx); err != nil {
					logger.Warn("session reload failed",
						slog.String("op", kind), slog.String("error", err.Error()))
				}
			})
			if err != nil {
				logger.Warn("slot watcher unavailable", slog.String("error", err.Error()))
			}
			return nil
		})
	}

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
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		// Close the broker first so open SSE streams end and Shutdown can finish.
		c.broker.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		// Stop the slot watcher.
		stop()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP serves the MCP tools over stdin/stdout. Logs go to stderr unless
// another writer is configured.
func RunMCP(ctx context.Context, opts ...Option) error {
	opts = append([]Option{WithLogOutput(os.Stderr)}, opts...)
	_, c, err := setup(ctx, opts)
	if err != nil {
		return err
	}
	defer c.Close()

	c.logger.Info("MCP server starting on stdio")
	return mcpserver.New(c.svc).ServeStdio()
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, `{"status":"ok"}`)
}
