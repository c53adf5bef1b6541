package model

import "time"

// RunSummary aggregates the outcomes of one batch run. It is derived data:
// every count is recomputed from the outcome set by NewRunSummary, never
// tracked incrementally, so the summary can not drift from the outcomes.
type RunSummary struct {
	// Term is the search term that produced the title list.
	Term string `json:"term,omitempty"`

	// Mode is the execution mode the run used.
	Mode ExecutionMode `json:"mode,omitempty"`

	// OutputDir is the directory reference files were written to.
	OutputDir string `json:"output_dir,omitempty"`

	// StartedAt is when dispatch entered the running state.
	StartedAt time.Time `json:"started_at"`

	// === Aggregates ===

	// TotalTitles is the number of titles submitted to the run.
	TotalTitles int `json:"total_titles"`

	// SuccessCount is the number of titles with a written reference file.
	SuccessCount int `json:"success_count"`

	// FailureCount is the number of titles that failed.
	FailureCount int `json:"failure_count"`

	// Elapsed is the wall-clock duration from fan-out to final join.
	Elapsed time.Duration `json:"elapsed_ns"`

	// ElapsedSeconds is Elapsed in seconds, the unit reports display.
	ElapsedSeconds float64 `json:"elapsed_seconds"`

	// Outcomes holds one entry per submitted title, in input order.
	Outcomes []Outcome `json:"outcomes,omitempty"`
}

// NewRunSummary computes a RunSummary from a complete outcome set.
// Context fields (Term, Mode, OutputDir, StartedAt) are filled by the caller.
func NewRunSummary(outcomes []Outcome, elapsed time.Duration) *RunSummary {
	s := &RunSummary{
		TotalTitles:    len(outcomes),
		Elapsed:        elapsed,
		ElapsedSeconds: elapsed.Seconds(),
		Outcomes:       outcomes,
	}
	for _, o := range outcomes {
		if o.OK {
			s.SuccessCount++
		} else {
			s.FailureCount++
		}
	}
	return s
}

// HasFailures returns true if any title failed.
func (s *RunSummary) HasFailures() bool {
	return s.FailureCount > 0
}

// AllSucceeded returns true if every title produced a reference file.
func (s *RunSummary) AllSucceeded() bool {
	return s.TotalTitles > 0 && s.FailureCount == 0
}

// Failures returns the failed outcomes, in input order.
func (s *RunSummary) Failures() []Outcome {
	var result []Outcome
	for _, o := range s.Outcomes {
		if o.Failed() {
			result = append(result, o)
		}
	}
	return result
}
