// Package analytic provides the closed-form solution used to verify the
// numerical schemes.
//
// For a rod with both ends held at zero and initial condition sin(pi*x/L),
// the exact temperature is
//
//	T(x, t) = exp(-alpha*(pi/L)^2*t) * sin(pi*x/L)
//
// The formula is only meaningful for that initial condition and those
// boundaries; [Applicable] checks the boundary half of the precondition.
package analytic

import (
	"fmt"
	"math"

	"github.com/san-kum/heatsim/internal/rod"
	"gonum.org/v1/gonum/floats"
)

// Sine is the initial condition sin(pi*x/L).
func Sine(length float64) rod.InitialCondition {
	return func(x float64) float64 {
		return math.Sin(math.Pi * x / length)
	}
}

// Decay is the amplitude factor exp(-alpha*(pi/L)^2*t).
func Decay(alpha, length, t float64) float64 {
	k := math.Pi / length
	return math.Exp(-alpha * k * k * t)
}

// Sinusoid evaluates the exact solution at time t on every grid point.
func Sinusoid(alpha, t float64, g rod.Grid) rod.Field {
	amp := Decay(alpha, g.Length, t)
	ic := Sine(g.Length)
	f := make(rod.Field, g.Points)
	for i := range f {
		f[i] = amp * ic(g.Position(i))
	}
	return f
}

// Applicable reports whether the boundaries admit the sinusoidal solution.
func Applicable(bc rod.Boundary) bool {
	return bc.Left == 0 && bc.Right == 0
}

// MaxError is the largest pointwise absolute difference.
func MaxError(numerical, exact rod.Field) (float64, error) {
	if len(numerical) != len(exact) {
		return 0, fmt.Errorf("%w: %d vs %d points", rod.ErrDimensionMismatch, len(numerical), len(exact))
	}
	if len(numerical) == 0 {
		return 0, nil
	}
	return floats.Distance(numerical, exact, math.Inf(1)), nil
}

// RMSError is the root-mean-square pointwise difference.
func RMSError(numerical, exact rod.Field) (float64, error) {
	if len(numerical) != len(exact) {
		return 0, fmt.Errorf("%w: %d vs %d points", rod.ErrDimensionMismatch, len(numerical), len(exact))
	}
	if len(numerical) == 0 {
		return 0, nil
	}
	return floats.Distance(numerical, exact, 2) / math.Sqrt(float64(len(numerical))), nil
}
