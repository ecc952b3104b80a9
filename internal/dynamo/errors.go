package dynamo

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidState      = errors.New("dynamo: non-finite state")
	ErrInvalidConfig     = errors.New("dynamo: invalid simulation config")
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch")
)

// SimulationError records where a run stopped.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%g): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
