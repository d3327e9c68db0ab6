package rod

import (
	"errors"
	"fmt"
)

// Domain errors for rod simulations.
var (
	// ErrConfig indicates parameters that cannot describe a valid run.
	ErrConfig = errors.New("rod: invalid configuration")

	// ErrUnstable indicates a strict run whose explicit Fourier number exceeds the stability limit.
	ErrUnstable = errors.New("rod: explicit scheme unstable (Fourier number above limit)")

	// ErrSingular indicates the implicit linear system could not be solved.
	ErrSingular = errors.New("rod: singular tridiagonal system")

	// ErrDimensionMismatch indicates fields of different lengths were combined.
	ErrDimensionMismatch = errors.New("rod: dimension mismatch between fields")
)

// ConfigError names the offending parameter of a rejected configuration.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("rod: invalid configuration: %s %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrConfig
}

// SimulationError wraps an error with the step at which it happened.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
