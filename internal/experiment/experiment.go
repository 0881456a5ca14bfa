package experiment

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/san-kum/dragsim/internal/compare"
	"github.com/san-kum/dragsim/internal/config"
	"github.com/san-kum/dragsim/internal/metrics"
	"github.com/san-kum/dragsim/internal/physics"
	"github.com/san-kum/dragsim/internal/trajectory"
)

// Experiment computes both models for one configuration.
type Experiment struct {
	cfg    *config.Config
	logger *slog.Logger
}

type Result struct {
	Galileo        *trajectory.Trajectory
	Newton         *trajectory.Trajectory
	GalileoLanding trajectory.Landing
	NewtonLanding  trajectory.Landing
	Rows           []compare.Row
	Metrics        map[string]float64
}

func New(cfg *config.Config, logger *slog.Logger) *Experiment {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Experiment{cfg: cfg, logger: logger}
}

func (e *Experiment) Config() *config.Config {
	return e.cfg
}

// Run validates the configuration and computes the Galileo and Newton
// trajectories. Nothing is written anywhere.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}
	p := e.cfg.Params

	galileo, gl, err := trajectory.Galileo(p.AlphaRad(), p.V0, p.G, p.X0, p.Y0, e.cfg.GalileoOptions())
	if err != nil {
		return nil, fmt.Errorf("galileo: %w", err)
	}
	e.logger.Debug("galileo computed", "t_land", gl.T, "x_land", gl.X, "y_max", gl.YMax)

	opts, err := e.cfg.NewtonOptions()
	if err != nil {
		return nil, err
	}
	sys := physics.NewDrag(p.Drag())
	energy := metrics.NewEnergyLoss(sys)
	peak := metrics.NewPeakDrag(sys)
	opts.Observers = metrics.Observers(energy, peak)
	opts.Logger = e.logger

	newton, nl, err := trajectory.Newton(ctx, p, opts)
	if err != nil {
		return nil, fmt.Errorf("newton: %w", err)
	}

	return &Result{
		Galileo:        galileo,
		Newton:         newton,
		GalileoLanding: gl,
		NewtonLanding:  nl,
		Rows:           compare.Build(gl, nl),
		Metrics:        metrics.Values(energy, peak),
	}, nil
}
