package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/lthms/outline/internal/store"
)

// CLI is the command-line surface of outline.
type CLI struct {
	Debug bool   `env:"OUTLINE_DEBUG" help:"Enable debug logging."`
	DB    string `env:"OUTLINE_DB" type:"path" name:"db" help:"Path to the order database (overrides config)."`

	Import   ImportCmd   `cmd:"" help:"Import (or replace) an order from a YAML file."`
	Show     ShowCmd     `cmd:"" help:"Print an order as an outline."`
	AddChild AddChildCmd `cmd:"" name:"add-child" help:"Add an item below an existing item."`
	Collapse CollapseCmd `cmd:"" help:"Fold the items below an item."`
	Expand   ExpandCmd   `cmd:"" help:"Unfold the items below an item."`
	Relabel  RelabelCmd  `cmd:"" help:"Recompute and store the labels of an order."`
	Export   ExportCmd   `cmd:"" help:"Write an order as flat YAML."`
	List     ListCmd     `cmd:"" help:"List stored orders."`
	Runs     RunsCmd     `cmd:"" help:"Show recent labeling runs of an order."`
	Delete   DeleteCmd   `cmd:"" help:"Delete an order."`
	MCP      MCPCmd      `cmd:"" name:"mcp" help:"Serve outline tools over MCP on stdio."`
}

// App carries what every command needs: resolved config, output and a
// lazily opened store.
type App struct {
	Config *Config
	Out    io.Writer

	store *store.Store
}

// Store opens the order database on first use.
func (a *App) Store() (*store.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	path := a.Config.Store.Path
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	s, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	slog.Debug("store opened", "path", path)
	a.store = s
	return s, nil
}

// Close closes the store if it was opened.
func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	return err
}

func main() {
	cli := CLI{}
	parser, err := kong.New(&cli,
		kong.Name("outline"),
		kong.Description("Keep sales order items as a labeled tree (1, 1.1, 1.1.1, ...)."),
		kong.UsageOnError(),
		kong.Exit(func(code int) {
			os.Exit(code)
		}),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "outline: %v\n", err)
		os.Exit(1)
	}
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	cfg, err := loadConfig(userConfigPath(), projectConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "outline: %v\n", err)
		os.Exit(1)
	}
	if cli.DB != "" {
		cfg.Store.Path = cli.DB
	}

	setupLogger(cli.Debug, cfg.Log.Level)

	app := &App{Config: cfg, Out: os.Stdout}
	ctx.Bind(app)

	err = ctx.Run()
	if cerr := app.Close(); cerr != nil {
		slog.Warn("close store", "error", cerr)
	}
	ctx.FatalIfErrorf(err)
}

func setupLogger(debug bool, level string) {
	lvl := parseLevel(level)
	if debug {
		lvl = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: lvl,
	}))
	slog.SetDefault(logger)
}

// parseLevel maps "debug", "info", "warn" and "error" to slog levels.
// Anything else is LevelWarn, so routine runs stay quiet.
func parseLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelWarn
	}
	return lvl
}
