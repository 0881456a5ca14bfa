// Package compare builds the Galileo versus Newton comparison table.
package compare

import "github.com/san-kum/dragsim/internal/trajectory"

// Row is one compared quantity.
type Row struct {
	Key     string  `json:"key"`
	Metric  string  `json:"metric"`
	Galileo float64 `json:"galileo"`
	Newton  float64 `json:"newton"`
}

const (
	KeyXLand  = "x_land"
	KeyTLand  = "t_land"
	KeyYMax   = "y_max"
	KeyDeltaX = "delta_x"
)

// Build returns the four comparison rows in their fixed order: landing
// distance, landing time, apex height and the range difference. The Galileo
// column of the difference row is always 0.
func Build(galileo, newton trajectory.Landing) []Row {
	return []Row{
		{Key: KeyXLand, Metric: "x_land (m)", Galileo: galileo.X, Newton: newton.X},
		{Key: KeyTLand, Metric: "t_land (s)", Galileo: galileo.T, Newton: newton.T},
		{Key: KeyYMax, Metric: "y_max (m)", Galileo: galileo.YMax, Newton: newton.YMax},
		{Key: KeyDeltaX, Metric: "delta_x = x_newton - x_galileo (m)", Galileo: 0.0, Newton: newton.X - galileo.X},
	}
}

// Find returns the row with the given key.
func Find(rows []Row, key string) (Row, bool) {
	for _, r := range rows {
		if r.Key == key {
			return r, true
		}
	}
	return Row{}, false
}
