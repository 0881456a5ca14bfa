package physics

import (
	"math"
	"testing"

	"github.com/san-kum/dragsim/internal/dynamo"
)

func TestDragFreeFall(t *testing.T) {
	d := NewDrag(DragParams{G: 9.81, Beta: 0, Mass: 1})

	dx := d.Derive(dynamo.State{0, 0, 3, 4}, 0)
	want := dynamo.State{3, 4, 0, -9.81}
	for i := range want {
		if dx[i] != want[i] {
			t.Errorf("component %d: got %v, want %v", i, dx[i], want[i])
		}
	}
}

func TestDragOpposesVelocity(t *testing.T) {
	d := NewDrag(DragParams{G: 0, Beta: 0.5, Mass: 2})

	dx := d.Derive(dynamo.State{0, 0, 3, 4}, 0)
	// speed 5, k = 0.25
	if math.Abs(dx[2]-(-0.25*3*5)) > 1e-12 {
		t.Errorf("du/dt = %v", dx[2])
	}
	if math.Abs(dx[3]-(-0.25*4*5)) > 1e-12 {
		t.Errorf("dw/dt = %v", dx[3])
	}

	accel := math.Hypot(dx[2], dx[3])
	if math.Abs(accel-d.Deceleration(dynamo.State{0, 0, 3, 4})) > 1e-12 {
		t.Errorf("deceleration mismatch: %v", accel)
	}
}

func TestDragAtRest(t *testing.T) {
	d := NewDrag(DefaultParams().Drag())

	dx := d.Derive(dynamo.State{1, 1, 0, 0}, 0)
	if dx[0] != 0 || dx[1] != 0 || dx[2] != 0 || dx[3] != -9.81 {
		t.Errorf("got %v", dx)
	}
}

func TestDragEnergy(t *testing.T) {
	d := NewDrag(DragParams{G: 10, Beta: 1, Mass: 1})
	if e := d.Energy(dynamo.State{5, 2, 3, 4}); e != 20+12.5 {
		t.Errorf("energy = %v", e)
	}
	if d.StateDim() != 4 {
		t.Errorf("state dim = %d", d.StateDim())
	}
}
