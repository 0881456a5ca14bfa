package automation

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/dragsim/internal/config"
	"github.com/san-kum/dragsim/internal/experiment"
	"github.com/san-kum/dragsim/internal/export"
)

// Scenario defines a scripted sequence of comparison runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run. Preset, when set, replaces the base
// configuration before Params are applied.
type ScenarioStep struct {
	Name       string             `yaml:"name"`
	Preset     string             `yaml:"preset"`
	Integrator string             `yaml:"integrator"`
	Dt         float64            `yaml:"dt"`
	Params     map[string]float64 `yaml:"params"`
	SaveAs     string             `yaml:"save_as"`
}

type StepResult struct {
	Name   string
	Config *config.Config
	Result *experiment.Result
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}

	return &scenario, nil
}

// RunScenario executes all steps in order and stops at the first failure,
// returning the results completed so far.
func RunScenario(ctx context.Context, scenario *Scenario, base *config.Config, logger *slog.Logger) ([]StepResult, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step %d", i+1)
		}
		logger.Info("running scenario step", "scenario", scenario.Name, "step", i+1, "of", len(scenario.Steps), "name", name)

		cfg, err := StepConfig(step, base)
		if err != nil {
			return results, fmt.Errorf("%s: %w", name, err)
		}

		res, err := experiment.New(cfg, logger).Run(ctx)
		if err != nil {
			return results, fmt.Errorf("%s: %w", name, err)
		}

		if step.SaveAs != "" {
			if err := export.SaveComparisonCSV(step.SaveAs, res.Rows); err != nil {
				return results, fmt.Errorf("%s save: %w", name, err)
			}
		}

		results = append(results, StepResult{Name: name, Config: cfg, Result: res})
	}

	return results, nil
}

// StepConfig derives the configuration of one step from base without
// modifying it.
func StepConfig(step ScenarioStep, base *config.Config) (*config.Config, error) {
	cfg := *base
	if step.Preset != "" {
		preset := config.GetPreset(step.Preset)
		if preset == nil {
			return nil, fmt.Errorf("unknown preset: %s", step.Preset)
		}
		cfg = *preset
	}
	if step.Integrator != "" {
		cfg.Integrator = step.Integrator
	}
	if step.Dt > 0 {
		cfg.Dt = step.Dt
	}
	for name, v := range step.Params {
		p, err := cfg.Params.With(name, v)
		if err != nil {
			return nil, err
		}
		cfg.Params = p
	}
	return &cfg, nil
}
