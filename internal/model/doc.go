// Package model defines the core data structures used throughout wikirefs.
//
// This package contains the following main types:
//   - Outcome: The per-title result of one unit of work
//   - RunSummary: The aggregate result of one batch run
//   - ExecutionMode: The concurrency strategy for a run
//   - ErrorKind: The failure taxonomy for per-title errors
//
// Design decision: We separate models into their own package to avoid
// circular dependencies. Multiple packages (wiki, dispatch, report) need to
// use these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON both for report output
// and for the parent/worker process protocol used by the process execution
// mode.
package model
