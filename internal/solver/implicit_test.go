package solver

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/heatsim/internal/rod"
	"gonum.org/v1/gonum/mat"
)

func TestBuildTridiagonalValues(t *testing.T) {
	const fo = 0.25
	a, err := BuildTridiagonal(3, fo) // Nx = 5
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	want := [][]float64{
		{1 + 2*fo, -fo, 0},
		{-fo, 1 + 2*fo, -fo},
		{0, -fo, 1 + 2*fo},
	}
	r, c := a.Dims()
	if r != 3 || c != 3 {
		t.Fatalf("expected 3x3, got %dx%d", r, c)
	}
	for i := range want {
		for j := range want[i] {
			if got := a.At(i, j); got != want[i][j] {
				t.Errorf("A[%d][%d] = %v, want %v", i, j, got, want[i][j])
			}
		}
	}
}

func TestBuildTridiagonalPositiveDefinite(t *testing.T) {
	for _, fo := range []float64{0, 0.025, 0.5, 4, 250} {
		a, err := BuildTridiagonal(9, fo)
		if err != nil {
			t.Fatalf("build failed: %v", err)
		}
		var chol mat.Cholesky
		if ok := chol.Factorize(a); !ok {
			t.Errorf("Fo=%v: matrix should be positive definite", fo)
		}
	}
}

func TestBuildTridiagonalSinglePoint(t *testing.T) {
	a, err := BuildTridiagonal(1, 0.3)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if got := a.At(0, 0); math.Abs(got-1.6) > 1e-15 {
		t.Errorf("expected 1.6, got %v", got)
	}

	if _, err := BuildTridiagonal(0, 0.3); !errors.Is(err, rod.ErrConfig) {
		t.Errorf("expected ErrConfig for empty system, got %v", err)
	}
}

func TestThomasMatchesDenseSolve(t *testing.T) {
	a, _ := BuildTridiagonal(6, 1.7)
	lu, err := FactorTridiagonal(a)
	if err != nil {
		t.Fatalf("factor failed: %v", err)
	}

	b := []float64{3, -1, 4, 1, -5, 9}
	x := make([]float64, len(b))
	if err := lu.Solve(b, x); err != nil {
		t.Fatalf("solve failed: %v", err)
	}

	var want mat.VecDense
	if err := want.SolveVec(mat.DenseCopyOf(a), mat.NewVecDense(len(b), b)); err != nil {
		t.Fatalf("dense solve failed: %v", err)
	}
	for i := range x {
		if math.Abs(x[i]-want.AtVec(i)) > 1e-12 {
			t.Errorf("x[%d] = %v, want %v", i, x[i], want.AtVec(i))
		}
	}
}

func TestThomasSingular(t *testing.T) {
	if _, err := NewThomas([]float64{0, 1}, []float64{0, 1}, []float64{1, 0}); !errors.Is(err, rod.ErrSingular) {
		t.Errorf("expected ErrSingular for zero pivot, got %v", err)
	}

	// [[1 1] [1 1]] eliminates to a zero second pivot.
	if _, err := NewThomas([]float64{0, 1}, []float64{1, 1}, []float64{1, 0}); !errors.Is(err, rod.ErrSingular) {
		t.Errorf("expected ErrSingular for rank-deficient system, got %v", err)
	}
}

func TestThomasSolveNonFinite(t *testing.T) {
	lu, err := NewThomas([]float64{0, 0}, []float64{1, 1}, []float64{0, 0})
	if err != nil {
		t.Fatalf("factor failed: %v", err)
	}
	x := make([]float64, 2)
	if err := lu.Solve([]float64{math.Inf(1), 0}, x); !errors.Is(err, rod.ErrSingular) {
		t.Errorf("expected non-finite solution to be reported, got %v", err)
	}
}

func TestImplicitStepFoldsBoundaries(t *testing.T) {
	const fo = 0.5
	bc := rod.Boundary{Left: 100, Right: 10}
	m, err := NewImplicit(5, fo, bc)
	if err != nil {
		t.Fatalf("new implicit failed: %v", err)
	}

	cur := rod.Field{100, 20, 20, 20, 10}
	next := make(rod.Field, 5)
	if err := m.Step(cur, next); err != nil {
		t.Fatalf("step failed: %v", err)
	}

	// The interior must satisfy (1+2Fo)x_i - Fo(x_{i-1} + x_{i+1}) = cur_i with known ends.
	for i := 1; i < 4; i++ {
		lhs := (1+2*fo)*next[i] - fo*(next[i-1]+next[i+1])
		if math.Abs(lhs-cur[i]) > 1e-10 {
			t.Errorf("row %d: residual %v", i, lhs-cur[i])
		}
	}
	if !bc.Holds(next) {
		t.Errorf("boundaries not reasserted: %v", next)
	}
}

func TestImplicitMatrixExposed(t *testing.T) {
	m, err := NewImplicit(5, 0.25, rod.Boundary{})
	if err != nil {
		t.Fatalf("new implicit failed: %v", err)
	}
	a := m.Matrix()
	if a.SymmetricDim() != 3 {
		t.Errorf("expected order 3, got %d", a.SymmetricDim())
	}
	if a.At(1, 1) != 1.5 || a.At(1, 2) != -0.25 {
		t.Errorf("unexpected coefficients: diag=%v off=%v", a.At(1, 1), a.At(1, 2))
	}
}

func TestImplicitStableAtLargeFourier(t *testing.T) {
	p := rodParams(11, 1000, 100000) // Fo = 10
	m, err := NewImplicit(p.Points, p.Fourier(), p.Boundary)
	if err != nil {
		t.Fatalf("new implicit failed: %v", err)
	}
	res, err := New(m).Run(rod.InitialField(p.Grid(), p.Initial, p.Boundary), Config{Dt: p.Dt, Duration: p.TFinal})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	for i, v := range res.Final {
		if v < -1e-9 || v > 100+1e-9 {
			t.Errorf("index %d left [0, 100]: %v", i, v)
		}
	}
}

func TestImplicitBoundariesHoldEveryStep(t *testing.T) {
	p := rodParams(21, 5, 200) // Fo = 0.2
	p.Boundary = rod.Boundary{Left: 100, Right: 40}
	m, err := NewImplicit(p.Points, p.Fourier(), p.Boundary)
	if err != nil {
		t.Fatalf("new implicit failed: %v", err)
	}

	sim := New(m)
	check := &boundaryCheck{bc: p.Boundary}
	sim.AddObserver(check)

	if _, err := sim.Run(rod.InitialField(p.Grid(), p.Initial, p.Boundary), Config{Dt: p.Dt, Duration: p.TFinal}); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if check.calls != p.Steps()+1 {
		t.Errorf("expected %d observations, got %d", p.Steps()+1, check.calls)
	}
	if check.violated != 0 {
		t.Errorf("boundary values changed in %d observations", check.violated)
	}
}
