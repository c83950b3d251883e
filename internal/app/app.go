// Package app wires the pieces together: logger, code table, executor,
// sweep definitions, and the run loop that drives them and writes the
// results out.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/fecworks/fecsweep/internal/codetable"
	"github.com/fecworks/fecsweep/internal/ctxlog"
	"github.com/fecworks/fecsweep/internal/executor"
	"github.com/fecworks/fecsweep/internal/simfec"
	"github.com/fecworks/fecsweep/internal/wsexec"
)

// App encapsulates the application's dependencies and lifecycle.
type App struct {
	errW   io.Writer
	logger *slog.Logger
	config *Config
}

// New constructs an App with its own isolated logger. Log output goes to
// errW; result files go wherever the config points.
func New(errW io.Writer, cfg *Config) *App {
	return &App{
		errW:   errW,
		logger: newLogger(cfg.LogLevel, cfg.LogFormat, errW),
		config: cfg,
	}
}

// buildExecutor picks the block executor the config asked for. The
// returned closer is nil for executors without a connection to shut down.
func (a *App) buildExecutor(ctx context.Context, codes *codetable.Registry) (executor.BlockExecutor, io.Closer, error) {
	switch a.config.Executor {
	case "sim":
		a.logger.Debug("using software simulator", "seed", a.config.Seed, "codes", codes.Len())
		return simfec.New(codes, a.config.Seed), nil, nil
	case "board":
		client, err := wsexec.Dial(ctx, a.config.BoardURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to board: %w", err)
		}
		// The board owns its code table; ours is only consulted to report
		// what the operator expects to be loaded.
		remote, err := client.ListCodes(ctx)
		if err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("querying board code table: %w", err)
		}
		a.logger.Info("connected to board", "url", a.config.BoardURL, "codes_loaded", len(remote))
		return client, client, nil
	}
	return nil, nil, fmt.Errorf("unknown executor %q", a.config.Executor)
}

// loggerContext returns a context carrying the app logger.
func (a *App) loggerContext(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}
