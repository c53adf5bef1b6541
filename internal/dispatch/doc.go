// Package dispatch fans a list of page titles out to workers and joins
// the results into one outcome per title.
//
// The package separates the unit of work (Runner: fetch references,
// write the file, classify the result) from the scheduling strategy
// (Dispatcher: sequential, bounded goroutine pool, or worker process
// pool). All strategies execute the same unit shape, so the outcome set
// a run produces depends only on the inputs, never on the mode.
//
// A run that starts always finishes with a complete outcome set, even
// when cancelled. The one fatal condition is a pool that cannot be
// assembled at all, reported as a *PoolSetupError before any title runs.
package dispatch
