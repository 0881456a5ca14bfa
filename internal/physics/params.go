package physics

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/dragsim/internal/dynamo"
)

// Params is the immutable model configuration. Derived quantities are
// computed on demand and never stored.
type Params struct {
	G           float64 `yaml:"g" toml:"g" json:"g"`
	AlphaDeg    float64 `yaml:"alpha_deg" toml:"alpha_deg" json:"alpha_deg"`
	V0          float64 `yaml:"v0" toml:"v0" json:"v0"`
	X0          float64 `yaml:"x0" toml:"x0" json:"x0"`
	Y0          float64 `yaml:"y0" toml:"y0" json:"y0"`
	C           float64 `yaml:"c" toml:"c" json:"c"`
	S           float64 `yaml:"s" toml:"s" json:"s"`
	RhoAir      float64 `yaml:"rho_air" toml:"rho_air" json:"rho_air"`
	RhoMaterial float64 `yaml:"rho_material" toml:"rho_material" json:"rho_material"`
	R           float64 `yaml:"r" toml:"r" json:"r"`
}

// DragParams is the fixed parameter record consumed by the drag RHS.
type DragParams struct {
	G    float64
	Beta float64
	Mass float64
}

// DefaultParams returns a 1 m/s, 45 degree launch of a 1 cm cast iron ball.
func DefaultParams() Params {
	return Params{
		G:           9.81,
		AlphaDeg:    45.0,
		V0:          1.0,
		X0:          0.0,
		Y0:          0.0,
		C:           0.15,
		S:           3.0,
		RhoAir:      1.225,
		RhoMaterial: 7200.0,
		R:           0.01,
	}
}

func (p Params) AlphaRad() float64 {
	return p.AlphaDeg * math.Pi / 180.0
}

// Beta is the drag factor c*s*rho_air/2, in kg/m.
func (p Params) Beta() float64 {
	return p.C * p.S * p.RhoAir / 2.0
}

// Mass of a solid sphere of radius R.
func (p Params) Mass() float64 {
	volume := 4.0 / 3.0 * math.Pi * p.R * p.R * p.R
	return p.RhoMaterial * volume
}

func (p Params) Drag() DragParams {
	return DragParams{G: p.G, Beta: p.Beta(), Mass: p.Mass()}
}

// InitialState returns (x0, y0, v0 cos a, v0 sin a).
func (p Params) InitialState() dynamo.State {
	sin, cos := math.Sincos(p.AlphaRad())
	return dynamo.State{p.X0, p.Y0, p.V0 * cos, p.V0 * sin}
}

func (p Params) Validate() error {
	for name, v := range p.GetParams() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is not finite", dynamo.ErrParameterBounds, name)
		}
	}
	if p.R <= 0 {
		return fmt.Errorf("%w: r must be positive, got %g", dynamo.ErrParameterBounds, p.R)
	}
	if p.RhoMaterial <= 0 {
		return fmt.Errorf("%w: rho_material must be positive, got %g", dynamo.ErrParameterBounds, p.RhoMaterial)
	}
	return nil
}

func (p Params) GetParams() map[string]float64 {
	return map[string]float64{
		"g":            p.G,
		"alpha_deg":    p.AlphaDeg,
		"v0":           p.V0,
		"x0":           p.X0,
		"y0":           p.Y0,
		"c":            p.C,
		"s":            p.S,
		"rho_air":      p.RhoAir,
		"rho_material": p.RhoMaterial,
		"r":            p.R,
	}
}

// ParamNames lists the keys accepted by With, sorted.
func ParamNames() []string {
	names := make([]string, 0, 10)
	for name := range DefaultParams().GetParams() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// With returns a copy of p with one named field replaced.
func (p Params) With(name string, value float64) (Params, error) {
	switch name {
	case "g":
		p.G = value
	case "alpha_deg":
		p.AlphaDeg = value
	case "v0":
		p.V0 = value
	case "x0":
		p.X0 = value
	case "y0":
		p.Y0 = value
	case "c":
		p.C = value
	case "s":
		p.S = value
	case "rho_air":
		p.RhoAir = value
	case "rho_material":
		p.RhoMaterial = value
	case "r":
		p.R = value
	default:
		return p, fmt.Errorf("unknown param: %s", name)
	}
	return p, nil
}
