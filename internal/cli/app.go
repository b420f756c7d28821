package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/roach88/batchop/internal/config"
	"github.com/roach88/batchop/internal/invoke"
	"github.com/roach88/batchop/internal/persist"
	"github.com/roach88/batchop/internal/preset"
	"github.com/roach88/batchop/internal/store"
)

// App holds the components one command invocation works with.
type App struct {
	Config  *config.Config
	Service *preset.Service
	Repo    *store.Repository
	Logger  *slog.Logger

	adapter persist.Adapter
}

// Close releases the storage adapter.
func (a *App) Close() error {
	if a.adapter == nil {
		return nil
	}
	return a.adapter.Close()
}

// AppFactory builds the App for a command. Diagnostics go to stderr.
type AppFactory func(ctx context.Context, opts *RootOptions, stderr io.Writer) (*App, error)

// configError marks failures to load or apply configuration.
type configError struct {
	err error
}

func (e *configError) Error() string { return "loading configuration: " + e.err.Error() }
func (e *configError) Unwrap() error { return e.err }

// NewLogger returns the text logger commands write diagnostics with:
// Debug when verbose, else the configured level.
func NewLogger(w io.Writer, level string, verbose bool) (*slog.Logger, error) {
	lvl, err := config.ParseLogLevel(level)
	if err != nil {
		return nil, err
	}
	if verbose {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

// defaultApp loads the config, opens the configured storage driver and wires
// the preset service to the real helper executable.
func defaultApp(ctx context.Context, opts *RootOptions, stderr io.Writer) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, &configError{err: err}
	}
	if opts.HelperPath != "" {
		if cfg.HelperPath, err = config.ExpandHome(opts.HelperPath); err != nil {
			return nil, &configError{err: err}
		}
	}

	logger, err := NewLogger(stderr, cfg.LogLevel, opts.Verbose)
	if err != nil {
		return nil, &configError{err: err}
	}
	slog.SetDefault(logger)

	popts, err := cfg.PersistOptions()
	if err != nil {
		return nil, &configError{err: err}
	}
	adapter, err := persist.Open(ctx, popts)
	if err != nil {
		return nil, err
	}
	logger.Debug("storage ready", "driver", adapter.Driver(), "key", cfg.StorageKey)

	repo := store.NewRepository(adapter, cfg.StorageKey, logger)
	inv := invoke.New(cfg.HelperPath, invoke.ExecRunner{MaxOutput: cfg.MaxOutputBytes}, logger)
	return &App{
		Config:  cfg,
		Service: preset.NewService(repo, inv, preset.Options{Logger: logger}),
		Repo:    repo,
		Logger:  logger,
		adapter: adapter,
	}, nil
}
