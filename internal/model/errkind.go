package model

// kindNoneStr is the string representation for the zero ErrorKind.
const kindNoneStr = "none"

// ErrorKind classifies why a single title failed to produce a reference file.
//
// Design decision: We use string-typed constants rather than iota integers
// because the kind crosses the worker-process boundary as JSON. String values
// are self-describing on the wire and in report files, so a summary produced
// by one build remains readable by another.
//
// KindNone is the zero value and marks a successful outcome; it is omitted
// from JSON output. A pool setup failure is deliberately not an ErrorKind:
// it aborts the whole run before any outcome exists (see package dispatch).
type ErrorKind string

// Error kind constants.
const (
	// KindNone marks a successful outcome. Not a failure.
	KindNone ErrorKind = ""

	// KindDisambiguation means the title resolves to a disambiguation page
	// rather than an article, so there is no single reference list to fetch.
	KindDisambiguation ErrorKind = "disambiguation"

	// KindNotFound means no page exists for the title.
	KindNotFound ErrorKind = "not_found"

	// KindNetworkTimeout means the provider call exceeded its timeout.
	KindNetworkTimeout ErrorKind = "network_timeout"

	// KindIOFailure means the reference file could not be written.
	KindIOFailure ErrorKind = "io_failure"

	// KindUnknown is the catch-all for any other failure. Runner code maps
	// every unrecognized error here so a title never crashes the batch.
	KindUnknown ErrorKind = "unknown"
)

// String returns the string representation of the ErrorKind.
func (k ErrorKind) String() string {
	if k == KindNone {
		return kindNoneStr
	}
	return string(k)
}

// IsValid returns true if this is a known failure kind.
// KindNone is not a failure and reports false.
func (k ErrorKind) IsValid() bool {
	switch k {
	case KindDisambiguation, KindNotFound, KindNetworkTimeout,
		KindIOFailure, KindUnknown:
		return true
	default:
		return false
	}
}

// ParseErrorKind converts a string to an ErrorKind.
// Unrecognized non-empty strings map to KindUnknown so a newer worker
// binary never produces a kind an older parent cannot classify.
func ParseErrorKind(s string) ErrorKind {
	switch s {
	case "", kindNoneStr:
		return KindNone
	case "disambiguation":
		return KindDisambiguation
	case "not_found":
		return KindNotFound
	case "network_timeout":
		return KindNetworkTimeout
	case "io_failure":
		return KindIOFailure
	default:
		return KindUnknown
	}
}
