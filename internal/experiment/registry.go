package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/heatsim/internal/rod"
	"github.com/san-kum/heatsim/internal/solver"
)

// StepperFactory builds a fresh stepper for one run.
type StepperFactory func(p rod.Params) (solver.Stepper, error)

type Registry struct {
	schemes map[string]StepperFactory
	bounded map[string]bool
}

func NewRegistry() *Registry {
	r := &Registry{
		schemes: make(map[string]StepperFactory),
		bounded: make(map[string]bool),
	}

	r.Register("explicit", true, func(p rod.Params) (solver.Stepper, error) {
		return solver.NewExplicit(p.Fourier(), p.Boundary), nil
	})
	r.Register("implicit", false, func(p rod.Params) (solver.Stepper, error) {
		return solver.NewImplicit(p.Points, p.Fourier(), p.Boundary)
	})

	return r
}

// Register adds a scheme. conditional marks schemes bound by the Fourier limit.
func (r *Registry) Register(name string, conditional bool, fn StepperFactory) {
	r.schemes[name] = fn
	r.bounded[name] = conditional
}

func (r *Registry) GetStepper(name string, p rod.Params) (solver.Stepper, error) {
	fn, ok := r.schemes[name]
	if !ok {
		return nil, &rod.ConfigError{Field: "scheme", Reason: fmt.Sprintf("unknown scheme %q (available: %v)", name, r.ListSchemes())}
	}
	return fn(p)
}

// ConditionallyStable reports whether the scheme is subject to the Fourier limit.
func (r *Registry) ConditionallyStable(name string) bool {
	return r.bounded[name]
}

func (r *Registry) ListSchemes() []string {
	names := make([]string, 0, len(r.schemes))
	for name := range r.schemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
