package sweep

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/dragsim/internal/dynamo"
	"github.com/san-kum/dragsim/internal/physics"
)

func TestLinspace(t *testing.T) {
	tests := []struct {
		lo, hi float64
		n      int
		want   []float64
	}{
		{0, 1, 5, []float64{0, 0.25, 0.5, 0.75, 1}},
		{2, 2, 3, []float64{2, 2, 2}},
		{0.5, 1, 1, []float64{0.5}},
		{0, 1, 0, nil},
	}

	for _, tt := range tests {
		got := Linspace(tt.lo, tt.hi, tt.n)
		if len(got) != len(tt.want) {
			t.Fatalf("Linspace(%g, %g, %d): got %v", tt.lo, tt.hi, tt.n, got)
		}
		for i := range got {
			if math.Abs(got[i]-tt.want[i]) > 1e-15 {
				t.Errorf("Linspace(%g, %g, %d)[%d] = %g, want %g", tt.lo, tt.hi, tt.n, i, got[i], tt.want[i])
			}
		}
	}
}

func TestDragCoefficientsMonotonic(t *testing.T) {
	cs := []float64{0, 0.01, 0.05, 0.15, 0.5, 2.0}
	want := []float64{0.10194, 0.09725, 0.0827, 0.06164, 0.03489, 0.01389}

	points, err := DragCoefficients(context.Background(), physics.DefaultParams(), cs, Options{})
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if len(points) != len(cs) {
		t.Fatalf("expected %d points, got %d", len(cs), len(points))
	}

	for i, pt := range points {
		if pt.C != cs[i] {
			t.Errorf("point %d: c = %g, want %g", i, pt.C, cs[i])
		}
		if math.Abs(pt.XLand-want[i]) > 2e-4 {
			t.Errorf("c=%g: x_land = %f, want ~%f", pt.C, pt.XLand, want[i])
		}
		if i > 0 && pt.XLand >= points[i-1].XLand {
			t.Errorf("x_land should decrease with c: %f at c=%g after %f", pt.XLand, pt.C, points[i-1].XLand)
		}
		if i > 0 && pt.YMax >= points[i-1].YMax {
			t.Errorf("y_max should decrease with c: %f at c=%g", pt.YMax, pt.C)
		}
	}
}

func TestDragCoefficientsErrors(t *testing.T) {
	_, err := DragCoefficients(context.Background(), physics.DefaultParams(), []float64{0.1}, Options{Integrator: "leapfrog"})
	if !errors.Is(err, dynamo.ErrUnknownIntegrator) {
		t.Errorf("expected ErrUnknownIntegrator, got %v", err)
	}

	_, err = DragCoefficients(context.Background(), physics.DefaultParams(), []float64{0, 0.1}, Options{TMax: 0.01})
	if !errors.Is(err, dynamo.ErrConvergence) {
		t.Errorf("expected ErrConvergence, got %v", err)
	}
}

func TestDragCoefficientsEmpty(t *testing.T) {
	points, err := DragCoefficients(context.Background(), physics.DefaultParams(), nil, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 0 {
		t.Errorf("expected no points, got %d", len(points))
	}
}
