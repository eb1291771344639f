package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidConfiguration indicates a particle system that must not be used:
	// non-positive count, degenerate box or non-positive radius bounds.
	ErrInvalidConfiguration = errors.New("dynamo: invalid configuration")

	// ErrReleased indicates an operation on a system whose storage was released.
	ErrReleased = errors.New("dynamo: particle system released")

	// ErrInvalidState indicates a state vector with NaN or Inf values.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrUnknownCollider indicates a collision resolver name not in the registry.
	ErrUnknownCollider = errors.New("dynamo: unknown collider")
)

// SimError wraps an error with simulation context.
type SimError struct {
	Step    int
	Time    float64
	Message string
	Wrapped error
}

func (e *SimError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("step %d (t=%.4f): %s: %v", e.Step, e.Time, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}

func (e *SimError) Unwrap() error {
	return e.Wrapped
}

// Invalidf returns an ErrInvalidConfiguration with a formatted reason.
func Invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}
