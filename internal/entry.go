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

	"github.com/starford/betternotes/internal/api"
	"github.com/starford/betternotes/internal/mcpserver"
	"github.com/starford/betternotes/internal/models"
	"github.com/starford/betternotes/internal/noteservice"
	"github.com/starford/betternotes/internal/sse"
	"github.com/starford/betternotes/internal/storage"
	"github.com/starford/betternotes/internal/watch"
)

var errConfigRequired = errors.New("config is required")

// NewLogger builds the structured JSON logger used by every command.
// Stdio MCP sessions log to stderr so stdout stays reserved for the protocol.
func NewLogger(cfg *Config, stderr bool) *slog.Logger {
	out := os.Stdout
	if stderr {
		out = os.Stderr
	}
	return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
}

// OpenService resolves the data directory once and builds the note service on it.
func OpenService(cfg *Config, logger *slog.Logger) (*noteservice.Service, *storage.FS, error) {
	dataDir, err := cfg.Storage.ResolveDataDir()
	if err != nil {
		return nil, nil, err
	}
	store, err := storage.NewOsFS(dataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("init storage: %w", err)
	}
	return noteservice.NewService(store, logger), store, nil
}

// Run starts the HTTP API, the notes watcher and the SSE feed.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	logger := app.logger
	if logger == nil {
		logger = NewLogger(cfg, false)
	}
	slog.SetDefault(logger)

	svc, store, err := OpenService(cfg, logger)
	if err != nil {
		return err
	}

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("notes_dir", store.NotesDir()),
		slog.Bool("watch", cfg.Events.Watch),
		slog.String("log_level", cfg.App.LogLevel.String()))

	broker := sse.NewBroker(cfg.Events.Throttle)
	defer broker.Close()

	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		if _, err := os.Stat(store.NotesDir()); err != nil && !errors.Is(err, os.ErrNotExist) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	if cfg.Events.Watch {
		g.Go(func() error {
			return watch.Watch(gCtx, store.NotesDir(), logger, func(ev models.Event) {
				broker.PublishNoteEvent(ev)
			})
		})
	}

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

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

		// SSE handlers only return once their subscriber channel closes.
		broker.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return context.Canceled
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP serves the note tools over stdio until stdin closes.
func RunMCP(_ context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger := app.logger
	if logger == nil {
		logger = NewLogger(app.config, true)
	}

	svc, store, err := OpenService(app.config, logger)
	if err != nil {
		return err
	}
	logger.Info("MCP server starting", slog.String("notes_dir", store.NotesDir()))
	return mcpserver.New(svc, app.version).ServeStdio()
}
