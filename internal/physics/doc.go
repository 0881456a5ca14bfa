// Package physics provides the projectile model parameters and the
// quadratic-drag equations of motion.
//
//   - [Params]: launch and material constants, with derived drag factor and mass
//   - [Drag]: 2D motion under gravity and velocity-squared drag, a [dynamo.System]
//
// The drag state is laid out as (x, y, u, w): position followed by velocity,
// which is the layout the position/velocity integrators expect.
//
//	p := physics.DefaultParams()
//	sys := physics.NewDrag(p.Drag())
//	dx := sys.Derive(dynamo.State{0, 0, 1, 1}, 0)
package physics
