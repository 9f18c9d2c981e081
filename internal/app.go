package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/starford/aliasrunner/internal/annotations"
	"github.com/starford/aliasrunner/internal/catalog"
	"github.com/starford/aliasrunner/internal/history"
	"github.com/starford/aliasrunner/internal/models"
	"github.com/starford/aliasrunner/internal/runner"
	"github.com/starford/aliasrunner/internal/walker"
)

// App is the wired application shared by every command.
type App struct {
	Config  *Config
	Logger  *slog.Logger
	Catalog *catalog.Service
	Runner  *runner.Runner
	// History is nil when run history is disabled.
	History history.Log

	version string
}

// New validates the root rc file and builds the catalog, runner and run
// history. It returns an error wrapping apperr.ErrRootMissing when the root
// rc file does not exist.
func New(opts ...Option) (*App, error) {
	app := &application{
		logOutput: os.Stderr,
		version:   "dev",
		stdin:     os.Stdin,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
	}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(app.logOutput, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Debug("Configuration loaded",
		slog.String("rc_path", cfg.Source.RCPath),
		slog.String("notes_path", cfg.Notes.Path),
		slog.String("history_path", cfg.History.Path),
		slog.Bool("history_enabled", cfg.History.Enabled),
		slog.String("log_level", cfg.App.LogLevel.String()))

	if err := catalog.CheckRoot(cfg.Source.RCPath); err != nil {
		return nil, err
	}

	w := walker.New(
		walker.WithDirSuffixes(cfg.Source.DirSuffixes),
		walker.WithLogger(logger),
	)
	svc := catalog.New(cfg.Source.RCPath, annotations.Open(cfg.Notes.Path),
		catalog.WithWalker(w),
		catalog.WithLogger(logger),
	)

	run := runner.New(cfg.Runner.Shell, cfg.Runner.Clear)
	run.Stdin, run.Stdout, run.Stderr = app.stdin, app.stdout, app.stderr

	a := &App{
		Config:  cfg,
		Logger:  logger,
		Catalog: svc,
		Runner:  run,
		version: app.version,
	}

	if cfg.History.Enabled {
		db, err := history.Open(cfg.History.Path)
		if err != nil {
			// History is auxiliary; the catalog stays usable without it.
			logger.Warn("run history unavailable", slog.String("path", cfg.History.Path), slog.String("error", err.Error()))
		} else {
			a.History = db
		}
	}

	return a, nil
}

// Close releases the history database.
func (a *App) Close() error {
	if a.History == nil {
		return nil
	}
	return a.History.Close()
}

// RunAlias executes the alias name with extra arguments and records the run.
// The returned status is the command's exit status.
func (a *App) RunAlias(ctx context.Context, name string, extra []string) (int, error) {
	alias, err := a.Catalog.Get(name)
	if err != nil {
		return -1, err
	}

	start := time.Now()
	code, err := a.Runner.Run(ctx, alias.Body, extra)
	if err != nil {
		return code, err
	}
	elapsed := time.Since(start)

	a.Logger.Info("alias executed",
		slog.String("alias", alias.Name),
		slog.Int("exit_code", code),
		slog.Duration("duration", elapsed))

	if a.History != nil {
		if _, recErr := a.History.Record(models.Run{
			Name:       alias.Name,
			Body:       alias.Body,
			Args:       extra,
			ExitCode:   code,
			StartedAt:  start,
			DurationMS: elapsed.Milliseconds(),
		}); recErr != nil {
			a.Logger.Warn("record run failed", slog.String("alias", alias.Name), slog.String("error", recErr.Error()))
		}
	}
	return code, nil
}
