package solver

import (
	"fmt"

	"github.com/san-kum/heatsim/internal/rod"
)

type Simulator struct {
	stepper   Stepper
	metrics   []Metric
	observers []Observer
}

func New(stepper Stepper) *Simulator {
	return &Simulator{
		stepper:   stepper,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run advances x0 for floor(Duration/Dt) steps. x0 is not modified.
func (s *Simulator) Run(x0 rod.Field, cfg Config) (*Result, error) {
	if err := s.validateConfig(x0, cfg); err != nil {
		return nil, err
	}

	steps := rod.NumSteps(cfg.Duration, cfg.Dt)
	result := &Result{
		Initial: x0.Clone(),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	cur := x0.Clone()
	next := make(rod.Field, len(cur))
	s.notify(0, 0, cur)

	for i := 0; i < steps; i++ {
		t := float64(i+1) * cfg.Dt
		if err := s.stepper.Step(cur, next); err != nil {
			return nil, &rod.SimulationError{Step: i + 1, Time: t, Wrapped: err}
		}
		cur, next = next, cur
		result.Steps++
		s.notify(i+1, t, cur)
	}

	result.Final = cur
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) notify(step int, t float64, f rod.Field) {
	for _, m := range s.metrics {
		m.Observe(f, t)
	}
	for _, obs := range s.observers {
		obs.OnStep(step, t, f)
	}
}

func (s *Simulator) validateConfig(x0 rod.Field, cfg Config) error {
	if s.stepper == nil {
		return fmt.Errorf("%w: no stepper", rod.ErrConfig)
	}
	if cfg.Dt <= 0 {
		return &rod.ConfigError{Field: "dt", Reason: fmt.Sprintf("must be greater than 0, got %g", cfg.Dt)}
	}
	if cfg.Duration < 0 {
		return &rod.ConfigError{Field: "t_final", Reason: fmt.Sprintf("must be at least 0, got %g", cfg.Duration)}
	}
	if len(x0) < rod.MinPoints {
		return &rod.ConfigError{Field: "nx", Reason: fmt.Sprintf("must be at least %d, got %d", rod.MinPoints, len(x0))}
	}
	return nil
}
