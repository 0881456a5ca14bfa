package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrDomain indicates a violated physical or mathematical precondition.
	ErrDomain = errors.New("dynamo: domain error")

	// ErrConvergence indicates the landing event was not found in time.
	ErrConvergence = errors.New("dynamo: landing not found within t_max")

	// ErrInvalidState indicates a state vector with NaN or Inf values.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrUnknownIntegrator indicates an integrator name with no registered stepper.
	ErrUnknownIntegrator = errors.New("dynamo: unknown integrator")
)

// DomainError reports why a closed-form solution does not exist.
type DomainError struct {
	Reason string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("dynamo: domain error: %s", e.Reason)
}

func (e *DomainError) Unwrap() error {
	return ErrDomain
}

// ConvergenceError is returned when height never crosses zero before TMax.
type ConvergenceError struct {
	TMax  float64
	Steps int
	LastY float64
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("dynamo: landing not found within t_max=%g (%d steps, last y=%.6g)", e.TMax, e.Steps, e.LastY)
}

func (e *ConvergenceError) Unwrap() error {
	return ErrConvergence
}

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
