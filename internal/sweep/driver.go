package sweep

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/fecworks/fecsweep/internal/config"
	"github.com/fecworks/fecsweep/internal/ctxlog"
	"github.com/fecworks/fecsweep/internal/executor"
	"github.com/fecworks/fecsweep/internal/result"
)

// ErrExecutorBusy is returned when a Run is requested while another sweep
// already holds the driver. The pipeline behind an executor is a single
// physical resource; two sweeps racing on its configuration registers
// would corrupt both.
var ErrExecutorBusy = errors.New("executor is already running a sweep")

// Skip records one combination that was rejected by the executor's
// parameter tables and passed over.
type Skip struct {
	Index     int
	Overrides []Override
	Reason    string
}

// EventKind discriminates progress events.
type EventKind int

const (
	// EventRow reports a completed combination and its result row.
	EventRow EventKind = iota
	// EventSkip reports a combination the executor rejected.
	EventSkip
)

// Event is delivered to the observer after every combination, completed or
// skipped, so callers can watch a long sweep make progress.
type Event struct {
	Kind  EventKind
	Index int
	Total int
	Row   result.Row
	Skip  *Skip
}

// Report is the outcome of one sweep: the collected rows plus every
// skipped combination. On a hardware fault it holds the rows gathered up
// to the fault, so partial results stay inspectable.
type Report struct {
	RunID string
	Table *result.Table
	Skips []Skip
}

// Driver runs sweeps against a single block executor, one combination at a
// time. The executor call is the only suspension point: the driver itself
// never blocks on anything else.
type Driver struct {
	exec     executor.BlockExecutor
	observer func(Event)
	busy     atomic.Bool
}

// Option configures a Driver.
type Option func(*Driver)

// WithObserver installs a progress callback. It is invoked synchronously
// between combinations, on the sweep's goroutine.
func WithObserver(fn func(Event)) Option {
	return func(d *Driver) { d.observer = fn }
}

// New returns a driver bound to the given executor handle.
func New(exec executor.BlockExecutor, opts ...Option) *Driver {
	d := &Driver{exec: exec}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run executes every combination of spec over base. For each combination
// it derives a fresh copy of base, applies the overrides, calls the
// executor and appends the returned row, tagged with the axis values that
// produced it.
//
// A *executor.ConfigRejected skips the one combination and continues. A
// *executor.HardwareFault stops the sweep immediately; the returned report
// keeps the rows collected before the fault and the error wraps the fault.
// Cancellation is cooperative: the context is checked between
// combinations, never interrupting an in-flight executor call.
func (d *Driver) Run(ctx context.Context, base config.RunConfiguration, spec Spec) (*Report, error) {
	if !d.busy.CompareAndSwap(false, true) {
		return nil, ErrExecutorBusy
	}
	defer d.busy.Store(false)

	logger := ctxlog.FromContext(ctx)

	if err := base.Validate(); err != nil {
		return nil, fmt.Errorf("base configuration: %w", err)
	}
	combos, err := spec.Combinations()
	if err != nil {
		return nil, err
	}

	report := &Report{
		RunID: uuid.NewString(),
		Table: result.NewTable(),
	}
	logger = logger.With("run_id", report.RunID)
	logger.Info("sweep started", "combinations", len(combos), "axes", len(spec.Axes))

	for _, combo := range combos {
		select {
		case <-ctx.Done():
			logger.Warn("sweep cancelled", "completed", report.Table.Len())
			return report, ctx.Err()
		default:
		}

		cfg := base
		for _, ov := range combo.Overrides {
			if err := config.Apply(&cfg, ov.Field, ov.Value); err != nil {
				// Kinds were checked during spec validation; reaching this
				// is a bug in the field registry.
				return report, fmt.Errorf("combination %d: %w", combo.Index, err)
			}
		}
		if err := cfg.Validate(); err != nil {
			d.skip(report, combo, err.Error(), len(combos), logger)
			continue
		}

		row, err := d.exec.ExecuteBlock(ctx, cfg)
		if err != nil {
			var rejected *executor.ConfigRejected
			if errors.As(err, &rejected) {
				d.skip(report, combo, rejected.Error(), len(combos), logger)
				continue
			}
			logger.Error("sweep aborted", "combination", combo.Index, "error", err)
			return report, fmt.Errorf("combination %d: %w", combo.Index, err)
		}

		for _, ov := range combo.Overrides {
			row = row.With(ov.Field, overrideValue(ov.Value))
		}
		report.Table.Append(row)
		logger.Debug("combination completed", "combination", combo.Index)

		if d.observer != nil {
			d.observer(Event{Kind: EventRow, Index: combo.Index, Total: len(combos), Row: row})
		}
	}

	logger.Info("sweep finished", "rows", report.Table.Len(), "skipped", len(report.Skips))
	return report, nil
}

func (d *Driver) skip(report *Report, combo Combination, reason string, total int, logger *slog.Logger) {
	s := Skip{Index: combo.Index, Overrides: combo.Overrides, Reason: reason}
	report.Skips = append(report.Skips, s)
	logger.Warn("combination skipped", "combination", combo.Index, "reason", reason)
	if d.observer != nil {
		d.observer(Event{Kind: EventSkip, Index: combo.Index, Total: total, Skip: &s})
	}
}

// overrideValue converts an axis value into a result cell so that every
// row names the combination that produced it, even when the executor left
// the field out.
func overrideValue(v any) result.Value {
	switch x := v.(type) {
	case float64:
		return result.Float(x)
	case float32:
		return result.Float(float64(x))
	case int:
		return result.Int(int64(x))
	case int64:
		return result.Int(x)
	case bool:
		return result.Bool(x)
	case string:
		return result.Str(x)
	}
	return result.Str(fmt.Sprintf("%v", v))
}
