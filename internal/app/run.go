package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fecworks/fecsweep/internal/codetable"
	"github.com/fecworks/fecsweep/internal/executor"
	"github.com/fecworks/fecsweep/internal/gridfile"
	"github.com/fecworks/fecsweep/internal/sweep"
)

// Run loads the code table and sweep definitions, then executes every
// sweep in file order. Each sweep's table is written to
// <out>/<sweep-name>.csv; a hardware fault stops the remaining sweeps but
// the partial table is still written before the error is returned.
func (a *App) Run(ctx context.Context) error {
	ctx = a.loggerContext(ctx)

	codes, err := codetable.Load(a.config.CodesPath)
	if err != nil {
		return err
	}
	a.logger.Debug("code table loaded", "path", a.config.CodesPath, "codes", codes.Len())

	defs, err := gridfile.Load(ctx, a.config.GridPath)
	if err != nil {
		return err
	}
	if len(defs) == 0 {
		a.logger.Warn("no sweeps to run", "path", a.config.GridPath)
		return nil
	}

	exec, closer, err := a.buildExecutor(ctx, codes)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	for _, def := range defs {
		if err := a.runSweep(ctx, def, exec); err != nil {
			return err
		}
	}

	a.logger.Info("all sweeps finished", "sweeps", len(defs))
	return nil
}

// runSweep executes one definition and writes its table out, partial or
// not.
func (a *App) runSweep(ctx context.Context, def gridfile.Definition, exec executor.BlockExecutor) error {
	logger := a.logger.With("sweep", def.Name)
	logger.Info("starting sweep")

	driver := sweep.New(exec, sweep.WithObserver(func(e sweep.Event) {
		switch e.Kind {
		case sweep.EventRow:
			logger.Info("combination done", "combination", e.Index+1, "of", e.Total)
		case sweep.EventSkip:
			logger.Warn("combination skipped", "combination", e.Index+1, "of", e.Total, "reason", e.Skip.Reason)
		}
	}))

	report, runErr := driver.Run(ctx, def.Base, def.Spec)
	if report != nil && report.Table.Len() > 0 {
		outPath := filepath.Join(a.config.OutDir, def.Name+".csv")
		if err := a.writeTable(report, outPath); err != nil {
			return err
		}
		logger.Info("results written", "path", outPath, "rows", report.Table.Len(), "skipped", len(report.Skips), "run_id", report.RunID)

		if s, err := report.Table.Summarize("post_ber"); err == nil {
			logger.Info("post-correction BER", "mean", s.Mean, "min", s.Min, "max", s.Max)
		}
	}
	if runErr != nil {
		return fmt.Errorf("sweep %q: %w", def.Name, runErr)
	}
	return nil
}

func (a *App) writeTable(report *sweep.Report, outPath string) error {
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outPath, err)
	}
	defer f.Close()

	if err := report.Table.WriteCSV(f); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	return nil
}
