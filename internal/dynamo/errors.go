package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a state with NaN or Inf components.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrInvalidParams indicates pendulum parameters outside their valid range.
	ErrInvalidParams = errors.New("dynamo: invalid pendulum parameters")

	// ErrDriverStopped indicates a start request on a loop that was torn down.
	ErrDriverStopped = errors.New("dynamo: loop driver already stopped")

	// ErrSurfaceUnavailable indicates the drawing surface could not be acquired.
	ErrSurfaceUnavailable = errors.New("dynamo: drawing surface unavailable")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Step, e.State, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
