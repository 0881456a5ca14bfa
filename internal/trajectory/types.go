package trajectory

import "math"

const (
	ModelGalileo = "galileo"
	ModelNewton  = "newton"
)

// Sample is one point of a trajectory: time, position and velocity.
type Sample struct {
	T float64 `json:"t"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
	U float64 `json:"u"`
	W float64 `json:"w"`
}

// Trajectory is an ordered, immutable sequence of samples.
type Trajectory struct {
	Model   string
	Samples []Sample
}

// Landing summarizes a trajectory: landing time, landing distance and apex
// height.
type Landing struct {
	T    float64 `json:"t_land"`
	X    float64 `json:"x_land"`
	YMax float64 `json:"y_max"`
}

func (tr *Trajectory) Len() int {
	return len(tr.Samples)
}

func (tr *Trajectory) Last() Sample {
	return tr.Samples[len(tr.Samples)-1]
}

// XY returns the coordinate sequences consumed by the plot sinks.
func (tr *Trajectory) XY() (xs, ys []float64) {
	xs = make([]float64, len(tr.Samples))
	ys = make([]float64, len(tr.Samples))
	for i, s := range tr.Samples {
		xs[i] = s.X
		ys[i] = s.Y
	}
	return xs, ys
}

func (tr *Trajectory) Times() []float64 {
	ts := make([]float64, len(tr.Samples))
	for i, s := range tr.Samples {
		ts[i] = s.T
	}
	return ts
}

// MaxHeight is the largest sampled height.
func (tr *Trajectory) MaxHeight() float64 {
	return maxHeight(tr.Samples)
}

// HeightAt interpolates the height at horizontal position x along the
// trajectory. ok is false when x is outside the sampled range.
func (tr *Trajectory) HeightAt(x float64) (y float64, ok bool) {
	for i := 1; i < len(tr.Samples); i++ {
		a, b := tr.Samples[i-1], tr.Samples[i]
		if x < math.Min(a.X, b.X) || x > math.Max(a.X, b.X) {
			continue
		}
		if b.X == a.X {
			return math.Max(a.Y, b.Y), true
		}
		frac := (x - a.X) / (b.X - a.X)
		return a.Y + frac*(b.Y-a.Y), true
	}
	return 0, false
}

func maxHeight(samples []Sample) float64 {
	yMax := math.Inf(-1)
	for _, s := range samples {
		if s.Y > yMax {
			yMax = s.Y
		}
	}
	return yMax
}
