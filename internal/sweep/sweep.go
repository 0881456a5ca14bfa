package sweep

import (
	"context"
	"fmt"
	"sync"

	"github.com/san-kum/dragsim/internal/integrators"
	"github.com/san-kum/dragsim/internal/physics"
	"github.com/san-kum/dragsim/internal/trajectory"
)

// Point is the Newton landing for one drag coefficient.
type Point struct {
	C     float64 `json:"c"`
	TLand float64 `json:"t_land"`
	XLand float64 `json:"x_land"`
	YMax  float64 `json:"y_max"`
}

type Options struct {
	Dt         float64
	TMax       float64
	Integrator string
	ExactApex  bool
}

// DragCoefficients runs the Newton model once per entry of cs, holding every
// other parameter of p fixed. Runs execute concurrently; the result keeps the
// order of cs. The first failing run's error is returned.
func DragCoefficients(ctx context.Context, p physics.Params, cs []float64, opts Options) ([]Point, error) {
	points := make([]Point, len(cs))
	errs := make([]error, len(cs))

	var wg sync.WaitGroup
	for i, c := range cs {
		wg.Add(1)
		go func(idx int, c float64) {
			defer wg.Done()

			integ, err := integrators.ByName(opts.Integrator)
			if err != nil {
				errs[idx] = err
				return
			}

			pc := p
			pc.C = c
			_, landing, err := trajectory.Newton(ctx, pc, trajectory.NewtonOptions{
				Dt:         opts.Dt,
				TMax:       opts.TMax,
				Integrator: integ,
				ExactApex:  opts.ExactApex,
			})
			if err != nil {
				errs[idx] = fmt.Errorf("c=%g: %w", c, err)
				return
			}
			points[idx] = Point{C: c, TLand: landing.T, XLand: landing.X, YMax: landing.YMax}
		}(i, c)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return points, nil
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}
