package solver

import (
	"fmt"
	"math"

	"github.com/san-kum/heatsim/internal/rod"
	"gonum.org/v1/gonum/mat"
)

// BuildTridiagonal returns the n×n backward-Euler matrix with 1+2Fo on the
// diagonal and -Fo on both off-diagonals.
func BuildTridiagonal(n int, fo float64) (*mat.SymBandDense, error) {
	if n < 1 {
		return nil, &rod.ConfigError{Field: "nx", Reason: fmt.Sprintf("leaves %d interior points", n)}
	}
	k := 1
	if n == 1 {
		k = 0
	}
	a := mat.NewSymBandDense(n, k, nil)
	for i := 0; i < n; i++ {
		a.SetSymBand(i, i, 1+2*fo)
		if i+1 < n {
			a.SetSymBand(i, i+1, -fo)
		}
	}
	return a, nil
}

// Thomas is the forward-elimination factor of a tridiagonal matrix. Factoring
// once and solving per step costs O(n) per right-hand side.
type Thomas struct {
	sub []float64 // sub[i] multiplies x[i-1] in row i; sub[0] unused
	cp  []float64 // modified super-diagonal
	inv []float64 // reciprocal of the eliminated pivots
}

// FactorTridiagonal eliminates the tridiagonal part of a square matrix.
func FactorTridiagonal(a mat.Matrix) (*Thomas, error) {
	r, c := a.Dims()
	if r != c {
		return nil, fmt.Errorf("%w: matrix is %dx%d", rod.ErrDimensionMismatch, r, c)
	}
	sub := make([]float64, r)
	diag := make([]float64, r)
	sup := make([]float64, r)
	for i := 0; i < r; i++ {
		diag[i] = a.At(i, i)
		if i > 0 {
			sub[i] = a.At(i, i-1)
		}
		if i+1 < r {
			sup[i] = a.At(i, i+1)
		}
	}
	return NewThomas(sub, diag, sup)
}

// NewThomas factors the system given by its three diagonals, all of length n.
func NewThomas(sub, diag, sup []float64) (*Thomas, error) {
	n := len(diag)
	if n == 0 || len(sub) != n || len(sup) != n {
		return nil, fmt.Errorf("%w: diagonals of length %d/%d/%d", rod.ErrDimensionMismatch, len(sub), n, len(sup))
	}
	t := &Thomas{
		sub: append([]float64(nil), sub...),
		cp:  make([]float64, n),
		inv: make([]float64, n),
	}
	prev := 0.0
	for i := 0; i < n; i++ {
		denom := diag[i]
		if i > 0 {
			denom -= sub[i] * prev
		}
		if denom == 0 || math.IsNaN(denom) || math.IsInf(denom, 0) {
			return nil, fmt.Errorf("%w: zero pivot in row %d", rod.ErrSingular, i)
		}
		t.inv[i] = 1 / denom
		if i+1 < n {
			t.cp[i] = sup[i] * t.inv[i]
		}
		prev = t.cp[i]
	}
	return t, nil
}

func (t *Thomas) Size() int { return len(t.inv) }

// Solve writes the solution of A·x = b into x. b and x may alias.
func (t *Thomas) Solve(b, x []float64) error {
	n := len(t.inv)
	if len(b) != n || len(x) != n {
		return fmt.Errorf("%w: system of order %d, b has %d, x has %d", rod.ErrDimensionMismatch, n, len(b), len(x))
	}
	x[0] = b[0] * t.inv[0]
	for i := 1; i < n; i++ {
		x[i] = (b[i] - t.sub[i]*x[i-1]) * t.inv[i]
	}
	for i := n - 2; i >= 0; i-- {
		x[i] -= t.cp[i] * x[i+1]
	}
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite solution at row %d", rod.ErrSingular, i)
		}
	}
	return nil
}
