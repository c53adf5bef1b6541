package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/wikirefs/wikirefs/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display and matches what a run
// prints as it goes: one line per page, then a short summary block.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// withLines controls whether Write repeats the per-title lines.
	// Off when the lines were already streamed during the run.
	withLines bool

	// verbose enables a failure detail section in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithOutcomeLines configures Write to include the per-title result
// lines ahead of the summary block.
func WithOutcomeLines(include bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.withLines = include
	}
}

// WithVerbose enables verbose output with failure details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		withLines:  false,
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// WriteBanner writes the line announcing how many pages a run is about
// to process and where the files go.
func (w *SimpleWriter) WriteBanner(count int, dir string) (int, error) {
	return fmt.Fprintf(w.output, "Processing %d page(s) → saving .txt files to %s\n\n", count, dir)
}

// WriteOutcomeLine writes the one-line result for a single title.
// Successes show the written file name, failures show the title and
// the reason.
func (w *SimpleWriter) WriteOutcomeLine(outcome model.Outcome) (int, error) {
	return fmt.Fprint(w.output, outcomeLine(outcome))
}

// Write outputs the summary block, optionally preceded by the per-title
// lines.
func (w *SimpleWriter) Write(summary *model.RunSummary) (int, error) {
	var sb strings.Builder

	if w.withLines {
		for _, outcome := range summary.Outcomes {
			sb.WriteString(outcomeLine(outcome))
		}
	}

	sb.WriteString("\nSummary:\n")
	sb.WriteString(fmt.Sprintf("  wrote:   %d\n", summary.SuccessCount))
	sb.WriteString(fmt.Sprintf("  skipped: %d\n", summary.FailureCount))
	sb.WriteString(fmt.Sprintf("  elapsed: %.2f s\n", summary.ElapsedSeconds))

	if w.verbose && summary.HasFailures() {
		sb.WriteString("\nFailures:\n")
		for _, outcome := range summary.Failures() {
			sb.WriteString(fmt.Sprintf("  [%s] %s: %s\n", outcome.ErrKind.String(), outcome.Title, outcome.Message))
		}
	}

	return w.output.Write([]byte(sb.String()))
}

// outcomeLine formats the one-line result for a title.
func outcomeLine(outcome model.Outcome) string {
	if outcome.OK {
		return fmt.Sprintf("✓ wrote %s\n", filepath.Base(outcome.FilePath))
	}
	return fmt.Sprintf("– skipped %s (%s)\n", outcome.Title, outcome.Message)
}
