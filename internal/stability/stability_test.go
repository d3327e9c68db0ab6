package stability

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/heatsim/internal/rod"
)

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name          string
		alpha, dt, dx float64
		fo            float64
		exceeded      bool
	}{
		{"explicit preset", 1e-4, 0.1, 0.02, 0.025, false},
		{"implicit preset", 1e-4, 1, 0.02, 0.25, false},
		{"at limit", 1, 0.5, 1, 0.5, false},
		{"above limit", 1e-4, 3, 0.02, 0.75, true},
		{"zero diffusivity", 0, 1, 0.1, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Analyze(tt.alpha, tt.dt, tt.dx)
			if math.Abs(r.Fourier-tt.fo) > 1e-9 {
				t.Errorf("Fourier = %v, want %v", r.Fourier, tt.fo)
			}
			if r.Exceeded != tt.exceeded {
				t.Errorf("Exceeded = %v, want %v", r.Exceeded, tt.exceeded)
			}
			if r.Limit != Limit {
				t.Errorf("Limit = %v, want %v", r.Limit, Limit)
			}
		})
	}
}

func TestReportErr(t *testing.T) {
	if err := Analyze(1e-4, 0.1, 0.02).Err(); err != nil {
		t.Errorf("stable report should not error, got %v", err)
	}
	err := Analyze(1e-4, 3, 0.02).Err()
	if !errors.Is(err, rod.ErrUnstable) {
		t.Errorf("expected ErrUnstable, got %v", err)
	}
}

func TestForParams(t *testing.T) {
	p := rod.Params{Length: 1, Alpha: 1e-4, Points: 51, Dt: 0.1}
	if got := ForParams(p).Fourier; math.Abs(got-0.025) > 1e-12 {
		t.Errorf("expected Fo 0.025, got %v", got)
	}
}
