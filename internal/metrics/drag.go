package metrics

import (
	"math"

	"github.com/san-kum/dragsim/internal/dynamo"
)

type decelerator interface {
	Deceleration(x dynamo.State) float64
}

// PeakDrag is the largest drag deceleration seen along the run, in m/s^2.
type PeakDrag struct {
	name string
	sys  decelerator
	peak float64
}

func NewPeakDrag(sys decelerator) *PeakDrag {
	return &PeakDrag{
		name: "peak_drag",
		sys:  sys,
	}
}

func (p *PeakDrag) Name() string { return p.name }

func (p *PeakDrag) Observe(x dynamo.State, t float64) {
	p.peak = math.Max(p.peak, p.sys.Deceleration(x))
}

func (p *PeakDrag) Value() float64 { return p.peak }

func (p *PeakDrag) Reset() { p.peak = 0 }

// Observers wraps metrics for attachment to a simulation run.
func Observers(ms ...dynamo.Metric) []dynamo.Observer {
	obs := make([]dynamo.Observer, len(ms))
	for i, m := range ms {
		obs[i] = dynamo.MetricObserver{Metric: m}
	}
	return obs
}

// Values collects the current value of every metric by name.
func Values(ms ...dynamo.Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}
