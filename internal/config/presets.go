package config

import (
	"sort"

	"github.com/san-kum/dragsim/internal/physics"
)

func preset(mutate func(p *physics.Params)) *Config {
	cfg := DefaultConfig()
	mutate(&cfg.Params)
	return cfg
}

func withTMax(cfg *Config, tMax float64) *Config {
	cfg.TMax = tMax
	return cfg
}

var Presets = map[string]*Config{
	"lab": DefaultConfig(),
	"vacuum": preset(func(p *physics.Params) {
		p.C = 0
	}),
	"elevated": preset(func(p *physics.Params) {
		p.Y0 = 1.5
		p.AlphaDeg = 30
		p.V0 = 3
	}),
	"cannon": withTMax(preset(func(p *physics.Params) {
		p.V0 = 120
		p.AlphaDeg = 35
		p.R = 0.06
		p.S = 0.0113
		p.C = 0.47
	}), 30),
	"pingpong": preset(func(p *physics.Params) {
		p.V0 = 8
		p.AlphaDeg = 40
		p.R = 0.02
		p.S = 0.00126
		p.C = 0.5
		p.RhoMaterial = 84
	}),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
