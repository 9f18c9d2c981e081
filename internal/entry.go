// Package internal wires configuration, the alias catalog and its outer
// surfaces (CLI helpers, HTTP server, MCP server) together.
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

	"github.com/starford/aliasrunner/internal/api"
	"github.com/starford/aliasrunner/internal/catalog"
	"github.com/starford/aliasrunner/internal/mcpserver"
	"github.com/starford/aliasrunner/internal/sse"
	"github.com/starford/aliasrunner/internal/watcher"
)

// NewHTTPHandler builds the full HTTP handler: health checks plus the API
// mounted under /api, with SSE at /api/events.
func (a *App) NewHTTPHandler(broker *sse.Broker) http.Handler {
	cfg := a.Config
	h := api.NewHandler(a.Catalog, a.History, broker)
	apiRouter := api.NewRouter(h, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

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
		if err := catalog.CheckRoot(a.Catalog.Root()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"root config missing"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/api", apiRouter)
	return r
}

// Serve runs the HTTP API and the rc-file watcher until ctx is cancelled or
// a shutdown signal arrives.
func (a *App) Serve(ctx context.Context) error {
	cfg := a.Config
	logger := a.Logger

	broker := sse.NewBroker(time.Second)
	defer broker.Close()

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           a.NewHTTPHandler(broker),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	// Reload on rc changes and tell SSE clients.
	g.Go(func() error {
		err := watcher.Watch(gCtx, a.Catalog, cfg.Source.DirSuffixes, logger, func(stats catalog.ReloadStats) {
			broker.PublishReload(stats)
		})
		if err != nil {
			logger.Warn("watcher disabled", slog.String("error", err.Error()))
		}
		return nil
	})

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

		// Closing the broker ends open event streams so Shutdown can finish.
		broker.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the group so the watcher stops with the server.
var errShutdown = errors.New("shutdown")

// ServeMCP serves the catalog over MCP stdio. The watcher keeps the catalog
// current while the session is open.
func (a *App) ServeMCP(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	defer func() {
		cancel()
		<-done
	}()

	go func() {
		defer close(done)
		err := watcher.Watch(ctx, a.Catalog, a.Config.Source.DirSuffixes, a.Logger, nil)
		if err != nil {
			a.Logger.Warn("watcher disabled", slog.String("error", err.Error()))
		}
	}()

	srv := mcpserver.New(a.Catalog, a.History, a.version)
	if err := srv.ServeStdio(); err != nil {
		return fmt.Errorf("mcp: %w", err)
	}
	return nil
}
