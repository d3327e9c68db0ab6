package rod

import (
	"errors"
	"fmt"
	"math"
	"reflect"

	"github.com/go-playground/validator/v10"
)

// stepGuard absorbs representation error in t_final/dt so that 0.3/0.1 yields 3 steps.
const stepGuard = 1e-9

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("param"); name != "" {
			return name
		}
		return f.Name
	})
	return v
}

// Params is the immutable configuration of a single run.
type Params struct {
	Length   float64          `param:"length" validate:"gt=0"`
	Alpha    float64          `param:"alpha" validate:"gte=0"`
	TFinal   float64          `param:"t_final" validate:"gte=0"`
	Points   int              `param:"nx" validate:"gte=3"`
	Dt       float64          `param:"dt" validate:"gt=0"`
	Boundary Boundary         `param:"boundary"`
	Initial  InitialCondition `param:"initial" validate:"required"`
}

// Validate reports the first parameter that makes the run impossible.
func (p Params) Validate() error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &ConfigError{Field: fe.Field(), Reason: describe(fe)}
	}
	return fmt.Errorf("%w: %v", ErrConfig, err)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gt":
		return fmt.Sprintf("must be greater than %s, got %v", fe.Param(), fe.Value())
	case "gte":
		return fmt.Sprintf("must be at least %s, got %v", fe.Param(), fe.Value())
	case "required":
		return "is required"
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}

// Grid returns the spatial discretization. Params must be valid.
func (p Params) Grid() Grid {
	return Grid{Length: p.Length, Points: p.Points, Dx: p.Length / float64(p.Points-1)}
}

// Fourier returns alpha*dt/dx^2.
func (p Params) Fourier() float64 {
	dx := p.Grid().Dx
	return p.Alpha * p.Dt / (dx * dx)
}

// Steps returns floor(t_final/dt).
func (p Params) Steps() int {
	return NumSteps(p.TFinal, p.Dt)
}

// NumSteps returns the number of whole time steps in duration. Unlike plain
// truncation of duration/dt, a ratio within a relative 1e-9 below an integer
// counts as that integer: 0.3/0.1 evaluates to 2.9999999999999996 and gives
// 3 steps, not 2.
func NumSteps(duration, dt float64) int {
	if dt <= 0 || duration <= 0 {
		return 0
	}
	ratio := duration / dt
	return int(math.Floor(ratio + ratio*stepGuard))
}
