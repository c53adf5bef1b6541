package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/wikirefs/wikirefs/internal/model"
	"github.com/wikirefs/wikirefs/internal/refstore"
	"github.com/wikirefs/wikirefs/internal/wiki"
)

// Fetcher fetches the reference list of one page.
// *wiki.Client is the production implementation.
type Fetcher interface {
	References(ctx context.Context, title string) (*wiki.Page, error)
}

// Storer persists one reference list and returns the file path.
// *refstore.Store is the production implementation.
type Storer interface {
	Write(title string, refs []string) (string, error)
}

// Runner executes the unit of work for a single title: fetch the
// references, write them to the store, and fold the result into an
// Outcome. A Runner is stateless between calls and safe for concurrent
// use as long as its Fetcher and Storer are.
//
// Design decision: Run returns an Outcome rather than (Outcome, error)
// because:
// 1. Every failure is already classified into the outcome taxonomy;
//    a second error channel would carry the same information twice
// 2. Callers fan hundreds of runs out and must never abort the batch
//    because one title failed
// 3. The outcome crosses the worker-process boundary as-is
type Runner struct {
	// fetcher retrieves reference lists from the wiki API.
	fetcher Fetcher

	// store writes reference files to the output directory.
	store Storer

	// logger is used for per-title logging.
	logger *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRunnerLogger sets a custom logger for the runner.
func WithRunnerLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner creates a Runner backed by the given fetcher and store.
func NewRunner(fetcher Fetcher, store Storer, opts ...RunnerOption) *Runner {
	r := &Runner{
		fetcher: fetcher,
		store:   store,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		r.logger = slog.Default()
	}

	return r
}

// Run processes one title end to end. The outcome carries the requested
// title even when the page resolves to a different one through a
// redirect; the written file is named after the resolved title.
func (r *Runner) Run(ctx context.Context, title string) model.Outcome {
	start := time.Now()

	r.logger.DebugContext(ctx, "fetching references", "title", title)

	page, err := r.fetcher.References(ctx, title)
	if err != nil {
		outcome := model.Failure(title, classifyError(err), err, time.Since(start))
		r.logger.WarnContext(ctx, "title failed",
			"title", title,
			"kind", outcome.ErrKind.String(),
			"error", err,
		)
		return outcome
	}

	path, err := r.store.Write(page.Title, page.References)
	if err != nil {
		outcome := model.Failure(title, classifyError(err), err, time.Since(start))
		r.logger.WarnContext(ctx, "title failed",
			"title", title,
			"kind", outcome.ErrKind.String(),
			"error", err,
		)
		return outcome
	}

	r.logger.DebugContext(ctx, "references written",
		"title", title,
		"references", len(page.References),
		"path", path,
	)
	return model.Success(title, len(page.References), path, time.Since(start))
}

// classifyError maps an error from the fetch-write path onto the
// outcome taxonomy. Fetch errors carry their own kind; store errors are
// IO failures; anything else is unknown.
func classifyError(err error) model.ErrorKind {
	var fetchErr *wiki.FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.Kind
	}

	var storeErr *refstore.StoreError
	if errors.As(err, &storeErr) {
		return model.KindIOFailure
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return model.KindNetworkTimeout
	}

	return model.KindUnknown
}
