// Package automation runs scripted sequences of rod simulations described in
// a YAML scenario file.
package automation

import (
	"context"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/heatsim/internal/config"
	"github.com/san-kum/heatsim/internal/experiment"
)

// Scenario defines a scripted simulation sequence.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep starts from a preset (or the defaults) and applies any keys
// given under overrides, using the config file layout.
type ScenarioStep struct {
	Name      string    `yaml:"name"`
	Preset    string    `yaml:"preset"`
	Overrides yaml.Node `yaml:"overrides"`
}

// LoadScenario loads a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}
	return &scenario, nil
}

// Config resolves the step into a run configuration.
func (s ScenarioStep) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		if cfg = config.GetPreset(s.Preset); cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", s.Preset, config.ListPresets())
		}
	}
	if s.Overrides.Kind != 0 {
		if err := s.Overrides.Decode(cfg); err != nil {
			return nil, fmt.Errorf("overrides: %w", err)
		}
	}
	return cfg, nil
}

func (s ScenarioStep) runName(i int) string {
	switch {
	case s.Name != "":
		return s.Name
	case s.Preset != "":
		return s.Preset
	default:
		return fmt.Sprintf("step-%d", i+1)
	}
}

// RunScenario executes all steps in order and stops at the first failure,
// returning the reports completed so far.
func RunScenario(ctx context.Context, scenario *Scenario, logger log.FieldLogger) ([]*experiment.Report, error) {
	reports := make([]*experiment.Report, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		if err := ctx.Err(); err != nil {
			return reports, err
		}
		name := step.runName(i)
		logger.WithFields(log.Fields{"scenario": scenario.Name, "step": i + 1, "of": len(scenario.Steps), "run": name}).Info("running scenario step")

		cfg, err := step.Config()
		if err != nil {
			return reports, fmt.Errorf("step %d: %w", i+1, err)
		}
		ec, err := cfg.Experiment(name)
		if err != nil {
			return reports, fmt.Errorf("step %d: %w", i+1, err)
		}
		rep, err := experiment.New(ec).WithLogger(logger).Run()
		if err != nil {
			return reports, fmt.Errorf("step %d run: %w", i+1, err)
		}
		reports = append(reports, rep)
	}

	return reports, nil
}
