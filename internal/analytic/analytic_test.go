package analytic

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/heatsim/internal/rod"
)

func TestSinusoidInitialTime(t *testing.T) {
	g, _ := rod.NewGrid(1, 11)
	f := Sinusoid(1e-4, 0, g)

	if math.Abs(f[5]-1) > 1e-15 {
		t.Errorf("midpoint should equal 1 at t=0, got %v", f[5])
	}
	if math.Abs(f[0]) > 1e-15 || math.Abs(f[10]) > 1e-15 {
		t.Errorf("ends should be zero, got %v and %v", f[0], f[10])
	}
}

func TestSinusoidDecay(t *testing.T) {
	g, _ := rod.NewGrid(2, 21)
	alpha, tf := 1e-4, 500.0
	f := Sinusoid(alpha, tf, g)

	want := math.Exp(-alpha*(math.Pi/2)*(math.Pi/2)*tf) * math.Sin(math.Pi*g.Position(7)/2)
	if math.Abs(f[7]-want) > 1e-15 {
		t.Errorf("got %v, want %v", f[7], want)
	}
	if d := Decay(alpha, 2, tf); d <= 0 || d >= 1 {
		t.Errorf("decay factor should be in (0, 1), got %v", d)
	}
}

func TestErrors(t *testing.T) {
	a := rod.Field{0, 1, 2, 0}
	b := rod.Field{0, 1.5, 1, 0}

	maxErr, err := MaxError(a, b)
	if err != nil {
		t.Fatalf("max error failed: %v", err)
	}
	if maxErr != 1 {
		t.Errorf("expected max error 1, got %v", maxErr)
	}

	rms, err := RMSError(a, b)
	if err != nil {
		t.Fatalf("rms error failed: %v", err)
	}
	if want := math.Sqrt((0.25 + 1) / 4); math.Abs(rms-want) > 1e-15 {
		t.Errorf("expected rms %v, got %v", want, rms)
	}

	if _, err := MaxError(a, b[:3]); !errors.Is(err, rod.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestApplicable(t *testing.T) {
	if !Applicable(rod.Boundary{}) {
		t.Error("zero boundaries should be applicable")
	}
	if Applicable(rod.Boundary{Left: 100}) {
		t.Error("non-zero boundary should not be applicable")
	}
}
