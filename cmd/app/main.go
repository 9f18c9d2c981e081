package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/aliasrunner/internal"
	"github.com/starford/aliasrunner/internal/apperr"
	"github.com/starford/aliasrunner/internal/models"
	"github.com/starford/aliasrunner/internal/render"
	"github.com/starford/aliasrunner/internal/runner"
	pkgconfig "github.com/starford/aliasrunner/pkg/config"
)

var version = "dev"

// loadConfig builds the configuration: defaults, then the YAML file, then
// environment, then flags.
func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if _, err := pkgconfig.LoadIfExists(internal.ExpandHome(cmd.String("config")), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.ApplyEnv(os.LookupEnv)
	if rc := cmd.String("rc"); rc != "" {
		cfg.Source.RCPath = rc
	}
	if notes := cmd.String("notes"); notes != "" {
		cfg.Notes.Path = notes
	}
	if cmd.Bool("verbose") {
		cfg.App.LogLevel = slog.LevelDebug
	}
	cfg.ExpandPaths()
	return cfg, nil
}

// withApp loads config, opens the application and passes it to fn. A
// missing root rc file is fatal with exit status 1.
func withApp(fn func(ctx context.Context, cmd *cli.Command, app *internal.App) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		app, err := internal.New(
			internal.WithConfig(cfg),
			internal.WithVersion(version),
		)
		if errors.Is(err, apperr.ErrRootMissing) {
			return cli.Exit(fmt.Sprintf("Could not find %s. Set ALIAS_RUNNER_RC to your zshrc if needed.", cfg.Source.RCPath), 1)
		}
		if err != nil {
			return err
		}
		defer app.Close()
		return fn(ctx, cmd, app)
	}
}

func listAction(_ context.Context, _ *cli.Command, app *internal.App) error {
	render.New(os.Stdout).Aliases(app.Catalog.Aliases())
	return nil
}

func searchAction(_ context.Context, cmd *cli.Command, app *internal.App) error {
	q := app.Catalog.Filter(strings.Join(cmd.Args().Slice(), " "))
	hits := q.Results
	if limit := int(cmd.Int("limit")); limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	p := render.New(os.Stdout)
	p.Hits(hits)
	render.New(os.Stderr).Status(app.Catalog.Status())
	return nil
}

func showAction(_ context.Context, cmd *cli.Command, app *internal.App) error {
	name := cmd.Args().First()
	if name == "" {
		return cli.Exit("alias name is required", 2)
	}
	a, err := app.Catalog.Get(name)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	var runs []models.Run
	if app.History != nil {
		runs, _ = app.History.Recent(5, a.Name)
	}
	render.New(os.Stdout).Detail(a, runs)
	return nil
}

func noteSetAction(_ context.Context, cmd *cli.Command, app *internal.App) error {
	args := cmd.Args().Slice()
	if len(args) == 0 {
		return cli.Exit("alias name is required", 2)
	}
	if _, err := app.Catalog.SetNote(args[0], strings.Join(args[1:], " ")); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	render.New(os.Stderr).Status(app.Catalog.Status())
	return nil
}

func noteClearAction(_ context.Context, cmd *cli.Command, app *internal.App) error {
	name := cmd.Args().First()
	if name == "" {
		return cli.Exit("alias name is required", 2)
	}
	if _, err := app.Catalog.ClearNote(name); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	render.New(os.Stderr).Status(app.Catalog.Status())
	return nil
}

func runAction(ctx context.Context, cmd *cli.Command, app *internal.App) error {
	args := cmd.Args().Slice()
	if len(args) == 0 {
		return cli.Exit("alias name is required", 2)
	}
	extra := args[1:]
	if s := cmd.String("args"); s != "" {
		split, err := runner.SplitArgs(s)
		if err != nil {
			return cli.Exit(err.Error(), 2)
		}
		extra = append(split, extra...)
	}

	code, err := app.RunAlias(ctx, args[0], extra)
	switch {
	case errors.Is(err, runner.ErrShellNotFound):
		return cli.Exit(fmt.Sprintf("%s not found on PATH.", app.Runner.Shell), 1)
	case errors.Is(err, apperr.ErrNotFound):
		return cli.Exit(err.Error(), 1)
	case err != nil:
		return err
	}
	if code != 0 {
		return cli.Exit("", code)
	}
	return nil
}

func historyAction(_ context.Context, cmd *cli.Command, app *internal.App) error {
	if app.History == nil {
		return cli.Exit("run history is disabled", 1)
	}
	runs, err := app.History.Recent(int(cmd.Int("limit")), cmd.String("name"))
	if err != nil {
		return err
	}
	render.New(os.Stdout).Runs(runs)
	return nil
}

func serveAction(ctx context.Context, cmd *cli.Command, app *internal.App) error {
	if port := cmd.Int("port"); port > 0 {
		app.Config.App.HTTP.Port = int(port)
	}
	if err := app.Serve(ctx); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func mcpAction(ctx context.Context, _ *cli.Command, app *internal.App) error {
	return app.ServeMCP(ctx)
}

func main() {
	cmd := &cli.Command{
		Name:    "aliasrunner",
		Usage:   "Index, search, annotate and run the aliases defined in your zsh config",
		Version: version,
		Action:  withApp(listAction),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "~/.config/aliasrunner/config.yaml",
				Value:       internal.DefaultConfigPath(),
				Sources:     cli.EnvVars(internal.EnvConfig),
			},
			&cli.StringFlag{
				Name:  "rc",
				Usage: "Root zsh config (overrides " + internal.EnvRC + " and source.rc_path)",
			},
			&cli.StringFlag{
				Name:  "notes",
				Usage: "Path to the user notes JSON file",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Log at debug level",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List every alias",
				Action: withApp(listAction),
			},
			{
				Name:      "search",
				Usage:     "Rank aliases by the words given",
				ArgsUsage: "[terms...]",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Usage: "Max results (0 for all)"},
				},
				Action: withApp(searchAction),
			},
			{
				Name:      "show",
				Usage:     "Show one alias with its source and recent runs",
				ArgsUsage: "<name>",
				Action:    withApp(showAction),
			},
			{
				Name:  "note",
				Usage: "Manage user notes",
				Commands: []*cli.Command{
					{
						Name:      "set",
						Usage:     "Save a note for an alias (blank text clears it)",
						ArgsUsage: "<name> [text...]",
						Action:    withApp(noteSetAction),
					},
					{
						Name:      "clear",
						Usage:     "Remove the user note of an alias",
						ArgsUsage: "<name>",
						Action:    withApp(noteClearAction),
					},
				},
			},
			{
				Name:      "run",
				Usage:     "Run an alias in an interactive shell",
				ArgsUsage: "<name> [args...]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "args", Usage: "Extra arguments as one shell-quoted string"},
				},
				Action: withApp(runAction),
			},
			{
				Name:  "history",
				Usage: "List recent runs",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: 20, Usage: "Max runs"},
					&cli.StringFlag{Name: "name", Usage: "Only runs of this alias"},
				},
				Action: withApp(historyAction),
			},
			{
				Name:  "serve",
				Usage: "Serve the REST API with live reload",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "HTTP port (overrides app.http.port)"},
				},
				Action: withApp(serveAction),
			},
			{
				Name:   "mcp",
				Usage:  "Serve the catalog over MCP stdio",
				Action: withApp(mcpAction),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
