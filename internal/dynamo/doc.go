// Package dynamo provides the core primitives shared by the projectile models.
//
// The package defines the fundamental interfaces and types for numerical
// integration of ordinary differential equations (ODEs):
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [RHS]: bare right-hand-side function, for callers without a System
//   - [Integrator]: fixed-step numerical stepper
//   - [Observer] and [Metric]: hooks called once per accepted step
//
// # Errors
//
// Failures are reported through a small taxonomy:
//
//   - [DomainError]: a physical or mathematical precondition does not hold
//   - [ConvergenceError]: the landing event was not found within the time budget
//   - [SimulationError]: the state diverged (NaN or Inf) mid-run
//
// Each wraps a sentinel so callers can match with errors.Is:
//
//	if errors.Is(err, dynamo.ErrConvergence) {
//	    // raise t_max or fix the launch parameters
//	}
package dynamo
