package dispatch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/wikirefs/wikirefs/internal/model"
	"golang.org/x/sync/errgroup"
)

// defaultMaxWorkers bounds concurrent units when no limit is configured.
const defaultMaxWorkers = 4

// UnitRunner executes the work for one title and reports the outcome.
// Runner does the work in-process; ProcessRunner spawns a worker process.
type UnitRunner interface {
	Run(ctx context.Context, title string) model.Outcome
}

// OutcomeFunc receives each outcome as it completes, with the index of
// the title in the original slice. In concurrent modes it is called
// from the goroutine that completed the unit, so it must be safe for
// concurrent use if it touches shared state.
type OutcomeFunc func(outcome model.Outcome, index int)

// Dispatcher schedules a title list over a UnitRunner according to the
// configured execution mode.
//
// Design decision: The dispatcher takes units as interfaces rather
// than a factory because:
// 1. The production units (Runner over a wiki client and a store,
//    ProcessRunner over a binary path) are safe for concurrent use, so
//    nothing per-unit needs constructing
// 2. Process mode plugs in by registering a second unit, not a second
//    scheduler; threads and procs share the same bounded fan-out
// 3. Tests can count and order calls with a stub unit
type Dispatcher struct {
	// unit executes the work for one title in sequential and threaded
	// modes.
	unit UnitRunner

	// procRunner executes the work for one title in process mode.
	// Process mode without a registered runner is a pool setup failure.
	procRunner UnitRunner

	// mode selects the scheduling strategy.
	mode model.ExecutionMode

	// maxWorkers is the concurrency bound for non-sequential modes.
	maxWorkers int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// onOutcome, when set, streams outcomes as they complete.
	onOutcome OutcomeFunc
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithMode sets the execution mode. Unknown modes are ignored and the
// default sequential mode stays in effect.
func WithMode(mode model.ExecutionMode) Option {
	return func(d *Dispatcher) {
		if mode.IsValid() {
			d.mode = mode
		}
	}
}

// WithMaxWorkers sets the concurrency bound for the threaded and
// process modes. Default is 4 if not specified.
func WithMaxWorkers(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.maxWorkers = n
		}
	}
}

// WithLogger sets a custom logger for the dispatcher.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithProcessRunner registers the unit used when the mode is process
// mode. Other modes ignore it.
func WithProcessRunner(unit UnitRunner) Option {
	return func(d *Dispatcher) {
		d.procRunner = unit
	}
}

// WithOnOutcome registers a callback that receives each outcome as it
// completes. Useful for streaming progress lines while the run is
// still going.
func WithOnOutcome(fn OutcomeFunc) Option {
	return func(d *Dispatcher) {
		d.onOutcome = fn
	}
}

// New creates a Dispatcher that schedules titles over the given unit.
func New(unit UnitRunner, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		unit:       unit,
		mode:       model.ModeSequential,
		maxWorkers: defaultMaxWorkers,
	}

	for _, opt := range opts {
		opt(d)
	}

	if d.logger == nil {
		d.logger = slog.Default()
	}

	return d
}

// Dispatch runs a unit for every title and returns the aggregated
// summary. The summary always holds exactly one outcome per title in
// input order, even when the run is cancelled: titles that never
// started are recorded as failures with the cancellation cause, and no
// error is returned for them.
//
// The only error Dispatch returns is a *PoolSetupError, raised before
// any title runs when the pool for the configured mode cannot be
// assembled. Everything that goes wrong after setup lives in the
// outcomes.
func (d *Dispatcher) Dispatch(ctx context.Context, titles []string) (*model.RunSummary, error) {
	unit, err := d.unitFor()
	if err != nil {
		return nil, err
	}

	d.logger.InfoContext(ctx, "dispatching titles",
		"total_titles", len(titles),
		"mode", d.mode.String(),
		"workers", d.workersFor(len(titles)),
	)

	startedAt := time.Now()

	var outcomes []model.Outcome
	if d.mode == model.ModeSequential {
		outcomes = d.runSequential(ctx, unit, titles)
	} else {
		// Threaded and process modes share the bounded fan-out;
		// they differ only in the unit
		outcomes = d.runConcurrent(ctx, unit, titles)
	}

	elapsed := time.Since(startedAt)
	summary := model.NewRunSummary(outcomes, elapsed)
	summary.Mode = d.mode
	summary.StartedAt = startedAt

	d.logger.InfoContext(ctx, "dispatch complete",
		"total_titles", summary.TotalTitles,
		"succeeded", summary.SuccessCount,
		"failed", summary.FailureCount,
		"elapsed", elapsed,
	)
	return summary, nil
}

// unitFor resolves the unit for the configured mode. The mode and the
// worker bound are valid by construction (the options ignore invalid
// values), so the only setup failures left are missing units.
func (d *Dispatcher) unitFor() (UnitRunner, error) {
	if d.mode == model.ModeProcesses {
		if d.procRunner == nil {
			return nil, &PoolSetupError{Mode: d.mode, Cause: ErrNoProcessRunner}
		}
		return d.procRunner, nil
	}
	if d.unit == nil {
		return nil, &PoolSetupError{Mode: d.mode, Cause: ErrNoUnit}
	}
	return d.unit, nil
}

// runSequential processes titles one at a time in input order.
func (d *Dispatcher) runSequential(ctx context.Context, unit UnitRunner, titles []string) []model.Outcome {
	outcomes := make([]model.Outcome, 0, len(titles))

	for i, title := range titles {
		// Check for cancellation before starting each unit
		select {
		case <-ctx.Done():
			// Unstarted titles still get terminal outcomes
			for j := i; j < len(titles); j++ {
				outcome := model.Failure(titles[j], model.KindUnknown, ctx.Err(), 0)
				outcomes = append(outcomes, outcome)
				if d.onOutcome != nil {
					d.onOutcome(outcome, j)
				}
			}
			return outcomes
		default:
		}

		outcome := unit.Run(ctx, title)
		outcomes = append(outcomes, outcome)

		if d.onOutcome != nil {
			d.onOutcome(outcome, i)
		}
	}

	return outcomes
}

// runConcurrent fans titles out to at most maxWorkers units at a time.
//
// Design decision: We use errgroup.SetLimit rather than a hand-built
// worker pool because it's simpler and errgroup handles the concurrency
// correctly. Each title gets its own goroutine, but only the configured
// number run simultaneously.
func (d *Dispatcher) runConcurrent(ctx context.Context, unit UnitRunner, titles []string) []model.Outcome {
	// Pre-allocate the outcome slice to maintain input order
	outcomes := make([]model.Outcome, len(titles))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workersFor(len(titles)))

	for i, title := range titles {
		g.Go(func() error {
			// Check for cancellation before starting
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			outcome := unit.Run(gctx, title)

			// Don't return unit failures to errgroup - we want the other
			// titles to keep going. The failure is recorded in the outcome.
			mu.Lock()
			outcomes[i] = outcome
			mu.Unlock()

			if d.onOutcome != nil {
				d.onOutcome(outcome, i)
			}
			return nil
		})
	}

	// The only group error is cancellation; a cancelled run still
	// reports one outcome per title
	if err := g.Wait(); err != nil {
		for i := 0; i < len(outcomes); i++ {
			if outcomes[i].Title == "" {
				outcomes[i] = model.Failure(titles[i], model.KindUnknown, err, 0)
				if d.onOutcome != nil {
					d.onOutcome(outcomes[i], i)
				}
			}
		}
	}

	return outcomes
}

// workersFor caps the worker count at the title count so short runs do
// not spawn idle workers. At least one worker always runs.
func (d *Dispatcher) workersFor(total int) int {
	workers := d.maxWorkers
	if total > 0 && total < workers {
		workers = total
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}
