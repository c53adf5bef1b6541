package dispatch

import (
	"errors"
	"fmt"

	"github.com/wikirefs/wikirefs/internal/model"
)

// ErrNoProcessRunner reports that process mode was requested without a
// registered process runner.
var ErrNoProcessRunner = errors.New("process mode requires a process runner")

// ErrNoUnit reports that the dispatcher has no unit to run titles with.
var ErrNoUnit = errors.New("no unit runner configured")

// PoolSetupError reports that a run could not start because the worker
// pool for the requested mode could not be assembled. It is the only
// error Dispatch returns; anything that goes wrong after setup is
// recorded per title in the outcomes instead.
type PoolSetupError struct {
	// Mode is the execution mode whose pool could not be set up.
	Mode model.ExecutionMode

	// Cause is the underlying setup failure.
	Cause error
}

// Error implements the error interface.
func (e *PoolSetupError) Error() string {
	return fmt.Sprintf("pool setup failed for mode %q: %v", e.Mode.String(), e.Cause)
}

// Unwrap returns the underlying cause for errors.Is and errors.As.
func (e *PoolSetupError) Unwrap() error {
	return e.Cause
}
