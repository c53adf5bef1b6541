package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/wikirefs/wikirefs/internal/model"
	"github.com/wikirefs/wikirefs/internal/refstore"
	"github.com/wikirefs/wikirefs/internal/wiki"
)

// WorkerCommand is the hidden subcommand a worker process is started
// with. The parent and the worker entry point must agree on it.
const WorkerCommand = "worker"

// ErrMissingTitle is returned when a worker task arrives without a title.
var ErrMissingTitle = errors.New("task missing title")

// Task is the unit of work sent to a worker process on stdin. It
// carries everything the worker needs to run one title without any
// shared state with the parent.
type Task struct {
	// Title is the page title to process.
	Title string `json:"title"`

	// OutputDir is the directory the reference file is written to.
	OutputDir string `json:"output_dir"`

	// APIURL is the resolved MediaWiki API endpoint.
	APIURL string `json:"api_url"`

	// UserAgent identifies the client to the API. Empty keeps the default.
	UserAgent string `json:"user_agent,omitempty"`

	// Timeout bounds each API request. Zero keeps the default.
	Timeout time.Duration `json:"timeout_ns,omitempty"`

	// Proxy is the SOCKS5 proxy address, if any.
	Proxy string `json:"proxy,omitempty"`

	// Headers are extra HTTP headers for every API request.
	Headers map[string]string `json:"headers,omitempty"`

	// MaxBodySize caps API response bodies. Zero keeps the default.
	MaxBodySize int64 `json:"max_body_size,omitempty"`

	// Verbose enables debug logging in the worker.
	Verbose bool `json:"verbose,omitempty"`
}

// ReadTask decodes a worker task from r. A task without a title is
// rejected here so the worker fails before touching the network.
func ReadTask(r io.Reader) (Task, error) {
	var task Task
	if err := json.NewDecoder(r).Decode(&task); err != nil {
		return Task{}, fmt.Errorf("failed to decode worker task: %w", err)
	}
	if task.Title == "" {
		return Task{}, ErrMissingTitle
	}
	return task, nil
}

// WriteOutcome encodes an outcome to w as one JSON document.
func WriteOutcome(w io.Writer, outcome model.Outcome) error {
	if err := json.NewEncoder(w).Encode(outcome); err != nil {
		return fmt.Errorf("failed to encode outcome: %w", err)
	}
	return nil
}

// ExecuteTask runs one task in-process the way a worker process does:
// build the client and the store from the task alone, then run the
// title. Setup failures fold into the outcome so the caller never has
// to distinguish them from fetch failures.
func ExecuteTask(ctx context.Context, task Task, logger *slog.Logger) model.Outcome {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	opts := []wiki.ClientOption{wiki.WithLogger(logger)}
	if task.UserAgent != "" {
		opts = append(opts, wiki.WithUserAgent(task.UserAgent))
	}
	if len(task.Headers) > 0 {
		opts = append(opts, wiki.WithHeaders(task.Headers))
	}
	if task.Timeout > 0 {
		opts = append(opts, wiki.WithTimeout(task.Timeout))
	}
	if task.Proxy != "" {
		opts = append(opts, wiki.WithProxy(task.Proxy))
	}
	if task.MaxBodySize > 0 {
		opts = append(opts, wiki.WithMaxBodySize(task.MaxBodySize))
	}

	client, err := wiki.NewClient(task.APIURL, opts...)
	if err != nil {
		return model.Failure(task.Title, model.KindUnknown, err, time.Since(start))
	}

	store := refstore.New(task.OutputDir)
	if err := store.Ensure(); err != nil {
		return model.Failure(task.Title, classifyError(err), err, time.Since(start))
	}

	runner := NewRunner(client, store, WithRunnerLogger(logger))
	return runner.Run(ctx, task.Title)
}

// ProcessRunner executes each title in a separate worker process by
// re-executing this binary with the hidden worker subcommand. The task
// goes in on stdin as JSON and the outcome comes back on stdout.
//
// Design decision: Worker processes re-execute the running binary
// rather than shelling out to a fixed path because:
// 1. The parent and the worker are always the same build, so the wire
//    format can never skew between them
// 2. No install-location assumptions; the binary may be anywhere
// 3. It mirrors how process pools behave on platforms without fork
type ProcessRunner struct {
	// executable is the binary to spawn for each title.
	executable string

	// task is the template every per-title task is stamped from.
	// Its Title field is filled in per run.
	task Task

	// logger is used for spawn-level logging.
	logger *slog.Logger
}

// ProcessOption configures a ProcessRunner.
type ProcessOption func(*ProcessRunner)

// WithProcessLogger sets a custom logger for the process runner.
func WithProcessLogger(logger *slog.Logger) ProcessOption {
	return func(p *ProcessRunner) {
		p.logger = logger
	}
}

// WithExecutable overrides the binary spawned for each worker.
// Intended for tests and unusual packaging layouts.
func WithExecutable(path string) ProcessOption {
	return func(p *ProcessRunner) {
		if path != "" {
			p.executable = path
		}
	}
}

// NewProcessRunner creates a ProcessRunner that spawns workers from the
// given task template. Failing to locate the running binary aborts
// construction with a *PoolSetupError; that failure is fatal to the
// whole run, unlike per-title spawn failures, which become outcomes.
func NewProcessRunner(task Task, opts ...ProcessOption) (*ProcessRunner, error) {
	p := &ProcessRunner{task: task}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	if p.executable == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, &PoolSetupError{
				Mode:  model.ModeProcesses,
				Cause: fmt.Errorf("failed to locate worker binary: %w", err),
			}
		}
		p.executable = exe
	}

	return p, nil
}

// Run spawns one worker process for the title and folds everything that
// can go wrong with the spawn into the outcome. Worker logs pass through
// to the parent's stderr; stdout carries only the outcome document.
func (p *ProcessRunner) Run(ctx context.Context, title string) model.Outcome {
	start := time.Now()

	task := p.task
	task.Title = title

	payload, err := json.Marshal(task)
	if err != nil {
		return model.Failure(title, model.KindUnknown, fmt.Errorf("failed to encode worker task: %w", err), time.Since(start))
	}

	p.logger.DebugContext(ctx, "spawning worker",
		"title", title,
		"executable", p.executable,
	)

	cmd := exec.CommandContext(ctx, p.executable, WorkerCommand)
	cmd.Stdin = bytes.NewReader(payload)
	cmd.Stderr = os.Stderr

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		return model.Failure(title, model.KindUnknown, fmt.Errorf("worker process failed: %w", err), time.Since(start))
	}

	var outcome model.Outcome
	if err := json.Unmarshal(stdout.Bytes(), &outcome); err != nil {
		return model.Failure(title, model.KindUnknown, fmt.Errorf("worker produced an unreadable outcome: %w", err), time.Since(start))
	}

	// Normalize what crossed the process boundary. A kind this build
	// does not know collapses to unknown rather than leaking through.
	if outcome.Title == "" {
		outcome.Title = title
	}
	if outcome.Failed() {
		outcome.ErrKind = model.ParseErrorKind(string(outcome.ErrKind))
		if outcome.ErrKind == model.KindNone {
			outcome.ErrKind = model.KindUnknown
		}
	}

	return outcome
}
