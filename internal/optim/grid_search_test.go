package optim

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/heatsim/internal/analytic"
	"github.com/san-kum/heatsim/internal/experiment"
	"github.com/san-kum/heatsim/internal/rod"
)

func verifyConfig() experiment.Config {
	return experiment.Config{
		Name:   "sweep",
		Scheme: "explicit",
		Verify: true,
		Params: rod.Params{
			Length:  1,
			Alpha:   1e-4,
			TFinal:  500,
			Points:  51,
			Dt:      1,
			Initial: analytic.Sine(1),
		},
	}
}

func TestNewGridSearchRejectsBadAxes(t *testing.T) {
	tests := []struct {
		name string
		axes []Axis
	}{
		{"none", nil},
		{"unknown", []Axis{{Name: "theta", Values: []float64{1}}}},
		{"empty", []Axis{{Name: ParamDt}}},
		{"duplicate", []Axis{{Name: ParamDt, Values: []float64{1}}, {Name: ParamDt, Values: []float64{2}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewGridSearch(tt.axes...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestPointsCartesian(t *testing.T) {
	g, err := NewGridSearch(
		Axis{Name: ParamNx, Values: []float64{11, 21}},
		Axis{Name: ParamDt, Values: []float64{0.1, 0.2, 0.3}},
	)
	if err != nil {
		t.Fatal(err)
	}
	pts := g.Points()
	if len(pts) != 6 {
		t.Fatalf("expected 6 points, got %d", len(pts))
	}
	if pts[0][ParamNx] != 11 || pts[0][ParamDt] != 0.1 {
		t.Errorf("unexpected first point %v", pts[0])
	}
	if pts[1][ParamNx] != 11 || pts[1][ParamDt] != 0.2 {
		t.Errorf("last axis should vary fastest, got %v", pts[1])
	}
	if pts[5][ParamNx] != 21 || pts[5][ParamDt] != 0.3 {
		t.Errorf("unexpected last point %v", pts[5])
	}
}

func TestSweepFindsStabilityLimit(t *testing.T) {
	// dx = 0.02, so Fo = 0.25 dt: dt 1 and 2 are stable, dt 2.5 is not.
	g, err := NewGridSearch(Axis{Name: ParamDt, Values: []float64{1, 2, 2.5}})
	if err != nil {
		t.Fatal(err)
	}
	pts, err := g.WithWorkers(2).Run(context.Background(), verifyConfig())
	if err != nil {
		t.Fatal(err)
	}
	if len(pts) != 3 {
		t.Fatalf("expected 3 points, got %d", len(pts))
	}

	for _, p := range pts[:2] {
		if p.Err != nil {
			t.Fatalf("dt=%v: %v", p.Values[ParamDt], p.Err)
		}
		if p.Stability.Exceeded || p.Metrics["bounded"] != 1 {
			t.Errorf("dt=%v should be stable and bounded, got Fo=%v bounded=%v",
				p.Values[ParamDt], p.Stability.Fourier, p.Metrics["bounded"])
		}
		if p.Metrics[MetricMaxError] > 1e-2 {
			t.Errorf("dt=%v: max error %v too large", p.Values[ParamDt], p.Metrics[MetricMaxError])
		}
	}

	unstable := pts[2]
	if unstable.Err != nil {
		t.Fatalf("advisory mode should still run: %v", unstable.Err)
	}
	if !unstable.Stability.Exceeded || unstable.Metrics["bounded"] >= 1 {
		t.Errorf("dt=2.5 should exceed Fo and leave the envelope, got Fo=%v bounded=%v",
			unstable.Stability.Fourier, unstable.Metrics["bounded"])
	}

	best, ok := Best(pts, MetricMaxError)
	if !ok {
		t.Fatal("expected a best point")
	}
	if best.Values[ParamDt] == 2.5 {
		t.Error("the diverged run must never be best")
	}
}

func TestSweepStrictRecordsErrors(t *testing.T) {
	cfg := verifyConfig()
	cfg.Strict = true
	g, _ := NewGridSearch(Axis{Name: ParamDt, Values: []float64{1, 2.5}})

	pts, err := g.Run(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if pts[0].Err != nil {
		t.Errorf("stable point failed: %v", pts[0].Err)
	}
	if !errors.Is(pts[1].Err, rod.ErrUnstable) {
		t.Errorf("expected ErrUnstable, got %v", pts[1].Err)
	}
	if _, ok := Best(pts[1:], MetricMaxError); ok {
		t.Error("failed points must not be chosen")
	}
}

func TestSweepCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g, _ := NewGridSearch(Axis{Name: ParamNx, Values: []float64{11, 21}})
	if _, err := g.Run(ctx, verifyConfig()); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSweepLengthKeepsVerificationProblem(t *testing.T) {
	g, _ := NewGridSearch(Axis{Name: ParamLength, Values: []float64{1, 2}})
	pts, err := g.Run(context.Background(), verifyConfig())
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range pts {
		if p.Err != nil {
			t.Fatalf("length=%v: %v", p.Values[ParamLength], p.Err)
		}
		if e := p.Metrics[MetricMaxError]; e > 1e-2 {
			t.Errorf("length=%v: max error %v, the initial sine must follow the rod length", p.Values[ParamLength], e)
		}
	}
}

func TestPointNames(t *testing.T) {
	p := Point{Values: map[string]float64{ParamNx: 1, ParamDt: 2}}
	names := p.Names()
	if len(names) != 2 || names[0] != ParamDt || names[1] != ParamNx {
		t.Errorf("unexpected names %v", names)
	}
}
