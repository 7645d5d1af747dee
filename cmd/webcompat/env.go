package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"webcompat/internal/config"
	"webcompat/internal/dataset"
	"webcompat/internal/errors"
	"webcompat/internal/paths"
	"webcompat/internal/query"
	"webcompat/internal/slogutil"
	"webcompat/internal/storage"

	"github.com/spf13/cobra"
)

// cliEnv bundles what every command needs: config, logging and, once
// opened, the metrics database.
type cliEnv struct {
	cfg     *config.Config
	loggers *slogutil.LoggerFactory
	logger  *slog.Logger
	db      *storage.DB
}

// newEnv loads config from the working directory. The verbosity flags
// override the configured log level only when given.
func newEnv(cmd *cobra.Command) (*cliEnv, error) {
	workDir, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadConfig(workDir)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var cliLevel *slog.Level
	if quiet || verbosity > 0 {
		level := slogutil.LevelFromVerbosity(verbosity, quiet)
		cliLevel = &level
	}

	loggers := slogutil.NewLoggerFactory(cfg, cliLevel)
	return &cliEnv{
		cfg:     cfg,
		loggers: loggers,
		logger:  loggers.CLILogger(cmd.ErrOrStderr()),
	}, nil
}

// openDB opens the metrics database. Failure is logged and leaves db nil
// since every command can run without it.
func (e *cliEnv) openDB() *storage.DB {
	if e.db != nil {
		return e.db
	}
	path, err := paths.GetMetricsDBPath()
	if err != nil {
		e.logger.Warn("Cannot resolve metrics database path", "error", err)
		return nil
	}
	db, err := storage.Open(path, e.logger)
	if err != nil {
		e.logger.Warn("Cannot open metrics database", "path", path, "error", err)
		return nil
	}
	e.db = db
	return db
}

// loader creates a dataset loader that records fetches in the database.
func (e *cliEnv) loader() (*dataset.Loader, error) {
	var store dataset.FetchStore
	if db := e.openDB(); db != nil {
		store = db
	}
	return dataset.NewLoader(e.cfg, store, e.logger)
}

// engine loads both datasets and indexes them.
func (e *cliEnv) engine(ctx context.Context) (*query.Engine, error) {
	l, err := e.loader()
	if err != nil {
		return nil, err
	}
	ds, err := l.LoadAll(ctx)
	if err != nil {
		if _, ok := errors.AsWebCompatError(err); ok {
			return nil, err
		}
		return nil, errors.NewDatasetUnavailableError("webcompat", err)
	}
	return query.NewEngine(ds.BCD, ds.WebFeatures, e.cfg, e.logger), nil
}

// close releases the database and log files.
func (e *cliEnv) close() {
	if e.db != nil {
		if err := e.db.Close(); err != nil {
			e.logger.Warn("Failed to close metrics database", "error", err)
		}
	}
	_ = e.loggers.Close()
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// withEngine runs fn with a loaded engine, writing output to the command's stdout.
func withEngine(cmd *cobra.Command, fn func(env *cliEnv, engine *query.Engine) error) error {
	env, err := newEnv(cmd)
	if err != nil {
		return err
	}
	defer env.close()

	ctx, cancel := signalContext()
	defer cancel()

	engine, err := env.engine(ctx)
	if err != nil {
		return err
	}
	return fn(env, engine)
}

// window validates --limit and --offset against the engine's page sizes.
func window(engine *query.Engine, limit, offset int) (int, int, error) {
	defaultLimit, maxLimit := engine.Limits()
	if limit == 0 {
		limit = defaultLimit
	}
	if limit < 1 || limit > maxLimit {
		return 0, 0, errors.NewInvalidParameterError("limit", fmt.Sprintf("must be between 1 and %d", maxLimit))
	}
	if offset < 0 {
		return 0, 0, errors.NewInvalidParameterError("offset", "must be at least 0")
	}
	return limit, offset, nil
}
