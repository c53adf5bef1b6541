package model

import "time"

// Outcome is the per-title result of one unit of work: either a successfully
// written reference file or a classified failure. Exactly one Outcome exists
// for every title submitted to a run, regardless of execution mode.
//
// Design decision: success and failure share one struct with constructors
// rather than an interface pair because:
// 1. The outcome crosses the worker-process boundary as JSON; one concrete
//    shape keeps the wire format trivial
// 2. Summary aggregation only branches on OK, it never type-switches
// 3. The zero-value distinction is carried by ErrKind, which is omitted
//    entirely for successes
//
// Outcomes are never mutated after creation.
type Outcome struct {
	// Title is the page title this outcome belongs to.
	Title string `json:"title"`

	// OK reports whether the reference file was written.
	OK bool `json:"ok"`

	// === Success fields ===

	// RefCount is the number of reference URLs written.
	RefCount int `json:"ref_count,omitempty"`

	// FilePath is the path of the written reference file.
	FilePath string `json:"file_path,omitempty"`

	// === Failure fields ===

	// ErrKind classifies the failure. Empty for successes.
	ErrKind ErrorKind `json:"error_kind,omitempty"`

	// Message is the human-readable failure description.
	Message string `json:"error,omitempty"`

	// Duration is how long the unit of work took, success or not.
	Duration time.Duration `json:"duration_ns,omitempty"`
}

// Success creates the outcome for a title whose references were written.
func Success(title string, refCount int, filePath string, duration time.Duration) Outcome {
	return Outcome{
		Title:    title,
		OK:       true,
		RefCount: refCount,
		FilePath: filePath,
		Duration: duration,
	}
}

// Failure creates the outcome for a title that could not be processed.
// Kinds outside the known taxonomy (including KindNone) are coerced to
// KindUnknown so a failure outcome always carries a valid classification.
func Failure(title string, kind ErrorKind, err error, duration time.Duration) Outcome {
	if !kind.IsValid() {
		kind = KindUnknown
	}
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return Outcome{
		Title:    title,
		OK:       false,
		ErrKind:  kind,
		Message:  msg,
		Duration: duration,
	}
}

// Failed reports whether this outcome records a failure.
func (o Outcome) Failed() bool {
	return !o.OK
}
