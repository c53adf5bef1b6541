package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages. Using errors.New() here rather than fmt.Errorf()
// because we don't need to include dynamic values in these messages.
var (
	// ErrNoTerm is returned when the search term is empty.
	// This should not happen in practice because CoerceTerm substitutes
	// the default term before validation runs.
	ErrNoTerm = errors.New("no search term specified: provide a term or run interactively")

	// ErrInvalidMode is returned when the execution mode is not one of
	// the known strategies. The CLI maps flag values onto modes before
	// validation, so this indicates a programming error or a bad preset.
	ErrInvalidMode = errors.New("invalid execution mode: must be one of seq, threads, or procs")

	// ErrInvalidMaxResults is returned when the result limit is not positive.
	// A limit of zero would mean searching for nothing.
	ErrInvalidMaxResults = errors.New("invalid max results: must be positive")

	// ErrInvalidMaxWorkers is returned when the worker count is not positive.
	// A pool of zero workers would never make progress in the threaded
	// and process modes.
	ErrInvalidMaxWorkers = errors.New("invalid max workers: must be positive")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	// A timeout of zero or negative would cause immediate request failures.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrNoOutputDir is returned when the output directory is empty.
	// Reference files need somewhere to go.
	ErrNoOutputDir = errors.New("no output directory specified")

	// ErrNoLanguage is returned when both the language code and the
	// explicit API endpoint are empty. One of the two is needed to
	// build the MediaWiki API URL.
	ErrNoLanguage = errors.New("no language specified: use --lang or --api-url")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// A negative body size is invalid; use 0 to use the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")
)
