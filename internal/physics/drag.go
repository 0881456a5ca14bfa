package physics

import "github.com/san-kum/dragsim/internal/dynamo"

// Drag is planar projectile motion under gravity and quadratic air drag.
// The drag force has magnitude beta*speed^2 and opposes the velocity.
type Drag struct {
	P DragParams
}

func NewDrag(p DragParams) *Drag {
	return &Drag{P: p}
}

func (d *Drag) StateDim() int {
	return 4
}

func (d *Drag) Derive(x dynamo.State, t float64) dynamo.State {
	u, w := x[2], x[3]
	speed := x[2:4].Norm()
	k := d.P.Beta / d.P.Mass

	return dynamo.State{
		u,
		w,
		-k * u * speed,
		-d.P.G - k*w*speed,
	}
}

// Energy is the specific mechanical energy g*y + |v|^2/2, in J/kg.
func (d *Drag) Energy(x dynamo.State) float64 {
	u, w := x[2], x[3]
	return d.P.G*x[1] + 0.5*(u*u+w*w)
}

// Deceleration is the magnitude of the drag acceleration at x.
func (d *Drag) Deceleration(x dynamo.State) float64 {
	u, w := x[2], x[3]
	return d.P.Beta / d.P.Mass * (u*u + w*w)
}
