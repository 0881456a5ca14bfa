package trajectory

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/san-kum/dragsim/internal/dynamo"
	"github.com/san-kum/dragsim/internal/integrators"
	"github.com/san-kum/dragsim/internal/physics"
)

const (
	DefaultDt   = 1e-3
	DefaultTMax = 10.0

	// Steps between context checks.
	cancelCheckInterval = 1024
	// Height differences below this are treated as a flat step.
	flatStep = 1e-15
)

type NewtonOptions struct {
	Dt   float64
	TMax float64
	// Integrator defaults to RK4. Callers may pass a shared one; the
	// stepper's scratch buffers make it unsafe for concurrent runs.
	Integrator dynamo.Integrator
	// Observers are notified with every recorded raw sample, including
	// the initial one.
	Observers []dynamo.Observer
	// ExactApex refines the sampled maximum with a parabola through the
	// three samples around it.
	ExactApex bool
	Logger    *slog.Logger
}

func (o NewtonOptions) withDefaults() NewtonOptions {
	if o.Dt <= 0 {
		o.Dt = DefaultDt
	}
	if o.TMax <= 0 {
		o.TMax = DefaultTMax
	}
	if o.Integrator == nil {
		o.Integrator = integrators.NewRK4()
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

// validate rejects step settings that would never terminate. NaN fails
// both comparisons in withDefaults and ends up here.
func (o NewtonOptions) validate() error {
	if math.IsNaN(o.Dt) || math.IsInf(o.Dt, 0) {
		return fmt.Errorf("%w: dt must be finite, got %g", dynamo.ErrParameterBounds, o.Dt)
	}
	if math.IsNaN(o.TMax) || math.IsInf(o.TMax, 0) {
		return fmt.Errorf("%w: t_max must be finite, got %g", dynamo.ErrParameterBounds, o.TMax)
	}
	return nil
}

// Newton integrates the quadratic-drag trajectory from t = 0 until the
// height crosses zero. It returns a *dynamo.ConvergenceError when no
// crossing happens before opts.TMax.
func Newton(ctx context.Context, p physics.Params, opts NewtonOptions) (*Trajectory, Landing, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, Landing{}, err
	}
	sys := physics.NewDrag(p.Drag())

	x := p.InitialState()
	t := 0.0
	dt := opts.Dt

	raw := make([]Sample, 0, int(math.Min(opts.TMax/dt, 1<<20))+1)
	raw = append(raw, sampleOf(t, x))
	notify(opts.Observers, x, t)

	opts.Logger.Debug("newton run started",
		"dt", dt, "t_max", opts.TMax, "beta", sys.P.Beta, "mass", sys.P.Mass)

	steps := 0
	for t < opts.TMax {
		if steps%cancelCheckInterval == 0 {
			select {
			case <-ctx.Done():
				return nil, Landing{}, ctx.Err()
			default:
			}
		}

		prevT, prev := t, x.Clone()

		x = opts.Integrator.Step(sys, x, t, dt)
		t += dt
		steps++

		if !x.IsValid() {
			return nil, Landing{}, &dynamo.SimulationError{Step: steps, Time: t, State: x, Wrapped: dynamo.ErrInvalidState}
		}

		raw = append(raw, sampleOf(t, x))
		notify(opts.Observers, x, t)

		yPrev, yCurr := prev[1], x[1]
		if prevT > 0 && yPrev >= 0 && yCurr <= 0 {
			frac := 0.0
			if math.Abs(yPrev-yCurr) >= flatStep {
				frac = yPrev / (yPrev - yCurr)
			}

			delta := x.Sub(prev)
			landing := Landing{
				T: prevT + frac*(t-prevT),
				X: prev[0] + frac*delta[0],
			}
			samples := Finalize(raw, landing)
			landing.YMax = maxHeight(samples)
			if opts.ExactApex {
				landing.YMax = refinedApex(samples)
			}

			opts.Logger.Debug("newton landing found",
				"steps", steps, "t_land", landing.T, "x_land", landing.X, "frac", frac)

			return &Trajectory{Model: ModelNewton, Samples: samples}, landing, nil
		}
	}

	return nil, Landing{}, &dynamo.ConvergenceError{TMax: opts.TMax, Steps: steps, LastY: x[1]}
}

// Finalize returns a copy of raw whose last sample is moved to the
// interpolated landing point on the ground. U and W of that sample are kept.
func Finalize(raw []Sample, landing Landing) []Sample {
	samples := make([]Sample, len(raw))
	copy(samples, raw)
	if len(samples) == 0 {
		return samples
	}
	last := &samples[len(samples)-1]
	last.T = landing.T
	last.X = landing.X
	last.Y = 0
	return samples
}

func sampleOf(t float64, x dynamo.State) Sample {
	return Sample{T: t, X: x[0], Y: x[1], U: x[2], W: x[3]}
}

func notify(observers []dynamo.Observer, x dynamo.State, t float64) {
	for _, o := range observers {
		o.OnStep(x, t)
	}
}

// refinedApex fits a parabola y(t) through the discrete maximum and its two
// neighbours and returns its vertex height. It never reports less than the
// sampled maximum.
func refinedApex(samples []Sample) float64 {
	best := 0
	for i, s := range samples {
		if s.Y > samples[best].Y {
			best = i
		}
	}
	yMax := samples[best].Y
	if best == 0 || best == len(samples)-1 {
		return yMax
	}

	s0, s1, s2 := samples[best-1], samples[best], samples[best+1]
	denom := (s0.T - s1.T) * (s0.T - s2.T) * (s1.T - s2.T)
	if denom == 0 {
		return yMax
	}
	a := (s2.T*(s1.Y-s0.Y) + s1.T*(s0.Y-s2.Y) + s0.T*(s2.Y-s1.Y)) / denom
	if a >= 0 {
		return yMax
	}
	b := (s2.T*s2.T*(s0.Y-s1.Y) + s1.T*s1.T*(s2.Y-s0.Y) + s0.T*s0.T*(s1.Y-s2.Y)) / denom
	c := (s1.T*s2.T*(s1.T-s2.T)*s0.Y + s2.T*s0.T*(s2.T-s0.T)*s1.Y + s0.T*s1.T*(s0.T-s1.T)*s2.Y) / denom

	return math.Max(yMax, c-b*b/(4*a))
}
