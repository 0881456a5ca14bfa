package trajectory

import (
	"math"

	"github.com/san-kum/dragsim/internal/dynamo"
)

const (
	DefaultPoints = 600

	cosEpsilon = 1e-12
)

type GalileoOptions struct {
	// NPoints is the number of evenly spaced samples on [0, t_land].
	// Zero selects DefaultPoints.
	NPoints int
	// ExactApex reports the analytic apex instead of the sampled maximum.
	ExactApex bool
}

// Galileo evaluates the drag-free trajectory in closed form. Samples carry no
// discretization error and the last one is exactly (t_land, x_land, 0).
func Galileo(alphaRad, v0, g, x0, y0 float64, opts GalileoOptions) (*Trajectory, Landing, error) {
	sin, cos := math.Sincos(alphaRad)
	if math.Abs(cos) < cosEpsilon {
		return nil, Landing{}, &dynamo.DomainError{Reason: "cos(alpha) is too close to zero for horizontal motion"}
	}
	if g <= 0 {
		return nil, Landing{}, &dynamo.DomainError{Reason: "gravity must be positive for the projectile to land"}
	}

	// y(t) = y0 + v0*sin(a)*t - g*t^2/2
	a := -0.5 * g
	b := v0 * sin
	c := y0
	disc := b*b - 4*a*c
	if disc < 0 {
		return nil, Landing{}, &dynamo.DomainError{Reason: "negative discriminant, no real landing time"}
	}

	sqrtDisc := math.Sqrt(disc)
	tLand := math.Inf(-1)
	for _, root := range []float64{(-b + sqrtDisc) / (2 * a), (-b - sqrtDisc) / (2 * a)} {
		if root >= 0 && root > tLand {
			tLand = root
		}
	}
	if math.IsInf(tLand, -1) {
		return nil, Landing{}, &dynamo.DomainError{Reason: "no nonnegative landing time"}
	}

	n := opts.NPoints
	if n <= 0 {
		n = DefaultPoints
	}
	if n < 2 {
		n = 2
	}

	u := v0 * cos
	samples := make([]Sample, n)
	for i := range samples {
		t := tLand * float64(i) / float64(n-1)
		samples[i] = Sample{
			T: t,
			X: x0 + u*t,
			Y: y0 + b*t + a*t*t,
			U: u,
			W: b - g*t,
		}
	}
	last := &samples[n-1]
	last.T = tLand
	last.X = x0 + u*tLand
	last.Y = 0

	landing := Landing{T: tLand, X: last.X, YMax: maxHeight(samples)}
	if opts.ExactApex {
		if tApex := b / g; tApex >= 0 && tApex <= tLand {
			landing.YMax = y0 + b*b/(2*g)
		}
	}

	return &Trajectory{Model: ModelGalileo, Samples: samples}, landing, nil
}
