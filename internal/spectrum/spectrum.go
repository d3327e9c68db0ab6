// Package spectrum decomposes rod temperature fields into the sine modes of
// the Dirichlet problem.
//
// With both ends fixed, the transient part of the solution is a sum of modes
// b_k(t)*sin(k*pi*x/L), each decaying as exp(-alpha*(k*pi/L)^2*t). Comparing
// mode amplitudes of two snapshots therefore gives a per-mode check of a
// scheme's numerical diffusion.
package spectrum

import (
	"fmt"
	"math"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/heatsim/internal/rod"
)

// SteadyState is the linear profile the rod relaxes to.
func SteadyState(g rod.Grid, bc rod.Boundary) rod.Field {
	f := make(rod.Field, g.Points)
	for i := range f {
		f[i] = bc.Left + (bc.Right-bc.Left)*g.Position(i)/g.Length
	}
	return f
}

// SineCoefficients returns b_1..b_{n-2} of the transient part of f, index 0
// holding mode 1. The steady profile is removed first, so f may carry any
// boundary values.
func SineCoefficients(f rod.Field, bc rod.Boundary) ([]float64, error) {
	n := len(f)
	if n < rod.MinPoints {
		return nil, &rod.ConfigError{Field: "nx", Reason: fmt.Sprintf("must be at least %d, got %d", rod.MinPoints, n)}
	}
	m := n - 1

	// Odd extension of the transient part over [0, 2L).
	ext := make([]float64, 2*m)
	for j := 1; j < m; j++ {
		u := f[j] - (bc.Left + (bc.Right-bc.Left)*float64(j)/float64(m))
		ext[j] = u
		ext[2*m-j] = -u
	}

	coef := fft.FFTReal(ext)
	b := make([]float64, m-1)
	for k := 1; k < m; k++ {
		b[k-1] = -imag(coef[k]) / float64(m)
	}
	return b, nil
}

// Mode compares one sine mode between two fields.
type Mode struct {
	K        int
	From, To float64
	// Rate is the observed decay rate -ln(To/From)/(t1-t0).
	Rate float64
	// Exact is alpha*(k*pi/L)^2.
	Exact float64
}

// RelativeError of the observed decay rate against the exact one.
func (m Mode) RelativeError() float64 {
	if m.Exact == 0 {
		return math.NaN()
	}
	return (m.Rate - m.Exact) / m.Exact
}

// Decay measures the decay rate of the first modes between f0 at t0 and f1
// at t1. Modes whose amplitude is below floor in either field are skipped,
// their rate being dominated by round-off.
func Decay(f0, f1 rod.Field, t0, t1 float64, p rod.Params, modes int, floor float64) ([]Mode, error) {
	if len(f0) != len(f1) {
		return nil, fmt.Errorf("%w: %d vs %d points", rod.ErrDimensionMismatch, len(f0), len(f1))
	}
	if !(t1 > t0) {
		return nil, fmt.Errorf("spectrum: need t1 > t0, got %g and %g", t0, t1)
	}
	b0, err := SineCoefficients(f0, p.Boundary)
	if err != nil {
		return nil, err
	}
	b1, err := SineCoefficients(f1, p.Boundary)
	if err != nil {
		return nil, err
	}
	if modes > len(b0) {
		modes = len(b0)
	}

	out := make([]Mode, 0, modes)
	for k := 1; k <= modes; k++ {
		from, to := b0[k-1], b1[k-1]
		if math.Abs(from) < floor || math.Abs(to) < floor || from*to <= 0 {
			continue
		}
		wave := float64(k) * math.Pi / p.Length
		out = append(out, Mode{
			K:     k,
			From:  from,
			To:    to,
			Rate:  -math.Log(to/from) / (t1 - t0),
			Exact: p.Alpha * wave * wave,
		})
	}
	return out, nil
}

// Power returns b_k^2 for every mode, the spectrum the terminal plot shows.
func Power(b []float64) []float64 {
	ps := make([]float64, len(b))
	for i, v := range b {
		ps[i] = v * v
	}
	return ps
}
