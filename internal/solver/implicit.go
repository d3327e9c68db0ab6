package solver

import (
	"fmt"

	"github.com/san-kum/heatsim/internal/rod"
	"gonum.org/v1/gonum/mat"
)

// Implicit is backward Euler: A·T_int^{n+1} = T_int^n + Fo*(boundary terms).
// The matrix is built and factored once, at construction.
type Implicit struct {
	fo     float64
	bc     rod.Boundary
	matrix *mat.SymBandDense
	lu     *Thomas
	rhs    []float64
}

// NewImplicit prepares the scheme for a grid of nx points.
func NewImplicit(nx int, fo float64, bc rod.Boundary) (*Implicit, error) {
	a, err := BuildTridiagonal(nx-2, fo)
	if err != nil {
		return nil, err
	}
	lu, err := FactorTridiagonal(a)
	if err != nil {
		return nil, err
	}
	return &Implicit{
		fo:     fo,
		bc:     bc,
		matrix: a,
		lu:     lu,
		rhs:    make([]float64, nx-2),
	}, nil
}

func (m *Implicit) Name() string { return "implicit" }

// Matrix exposes the coefficient matrix read-only.
func (m *Implicit) Matrix() mat.Symmetric { return m.matrix }

func (m *Implicit) Step(cur, next rod.Field) error {
	n := len(cur)
	if n != len(m.rhs)+2 || len(next) != n {
		return fmt.Errorf("%w: stepper built for %d points, got cur=%d next=%d", rod.ErrDimensionMismatch, len(m.rhs)+2, n, len(next))
	}
	b := m.rhs
	copy(b, cur[1:n-1])
	b[0] += m.fo * m.bc.Left
	b[len(b)-1] += m.fo * m.bc.Right

	if err := m.lu.Solve(b, next[1:n-1]); err != nil {
		return err
	}
	m.bc.Apply(next)
	return nil
}
