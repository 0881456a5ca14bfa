package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/dragsim/internal/config"
	"github.com/san-kum/dragsim/internal/integrators"
	"github.com/san-kum/dragsim/internal/physics"
	"github.com/san-kum/dragsim/internal/trajectory"
)

// paramFlags maps command line flags onto physics.Params fields.
var paramFlags = []struct {
	flag, param, usage string
}{
	{"g", "g", "gravitational acceleration (m/s^2)"},
	{"alpha", "alpha_deg", "launch angle (degrees)"},
	{"v0", "v0", "launch speed (m/s)"},
	{"x0", "x0", "initial horizontal position (m)"},
	{"y0", "y0", "initial height (m)"},
	{"c", "c", "drag coefficient"},
	{"s", "s", "reference area used for drag (m^2)"},
	{"rho-air", "rho_air", "air density (kg/m^3)"},
	{"rho-material", "rho_material", "projectile material density (kg/m^3)"},
	{"r", "r", "projectile radius (m)"},
}

// addModelFlags registers every flag that feeds loadConfig.
func addModelFlags(cmd *cobra.Command) {
	defaults := physics.DefaultParams().GetParams()
	for _, pf := range paramFlags {
		cmd.Flags().Float64(pf.flag, defaults[pf.param], pf.usage)
	}
	cmd.Flags().Float64("dt", trajectory.DefaultDt, "integration timestep (s)")
	cmd.Flags().Float64("tmax", trajectory.DefaultTMax, "integration time limit (s)")
	cmd.Flags().Int("points", trajectory.DefaultPoints, "galileo sample count")
	cmd.Flags().String("integrator", integrators.Default, fmt.Sprintf("integrator %v", integrators.Names()))
	cmd.Flags().Bool("exact-apex", false, "refine y_max with a parabola through the samples around the apex")
	cmd.Flags().String("config", "", "config file path (yaml or toml)")
	cmd.Flags().String("preset", "", "use preset configuration")
}

// loadConfig resolves defaults, then preset, then config file, then any flag
// the user set explicitly. A config file given with a preset only
// overrides the keys it sets.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()
	cfg := config.DefaultConfig()

	if name, _ := flags.GetString("preset"); name != "" {
		cfg = config.GetPreset(name)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
		}
	}

	if path, _ := flags.GetString("config"); path != "" {
		loaded, err := config.LoadOnto(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	for _, pf := range paramFlags {
		if !flags.Changed(pf.flag) {
			continue
		}
		v, err := flags.GetFloat64(pf.flag)
		if err != nil {
			return nil, err
		}
		if cfg.Params, err = cfg.Params.With(pf.param, v); err != nil {
			return nil, err
		}
	}
	if flags.Changed("dt") {
		cfg.Dt, _ = flags.GetFloat64("dt")
	}
	if flags.Changed("tmax") {
		cfg.TMax, _ = flags.GetFloat64("tmax")
	}
	if flags.Changed("points") {
		cfg.NPoints, _ = flags.GetInt("points")
	}
	if flags.Changed("integrator") {
		cfg.Integrator, _ = flags.GetString("integrator")
	}
	if flags.Changed("exact-apex") {
		cfg.ExactApex, _ = flags.GetBool("exact-apex")
	}
	if flags.Changed("csv") {
		cfg.Outputs.CSV, _ = flags.GetString("csv")
	}
	if flags.Changed("svg") {
		cfg.Outputs.SVG, _ = flags.GetString("svg")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
