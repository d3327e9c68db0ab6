package solver

import "github.com/san-kum/heatsim/internal/rod"

// Stepper computes the field one time step ahead. It reads only cur and
// writes every element of next, including both boundary points.
type Stepper interface {
	Name() string
	Step(cur, next rod.Field) error
}

// Metric accumulates a scalar summary over the observed fields of a run.
type Metric interface {
	Name() string
	Observe(f rod.Field, t float64)
	Value() float64
	Reset()
}

// Observer sees the initial field as step 0 and the field after step n as
// step n. f is reused by the next step; observers that keep it must copy it.
type Observer interface {
	OnStep(step int, t float64, f rod.Field)
}

type Config struct {
	Dt       float64
	Duration float64
}

type Result struct {
	Initial rod.Field
	Final   rod.Field
	Steps   int
	Metrics map[string]float64
}
