package solver

import (
	"errors"
	"testing"

	"github.com/san-kum/heatsim/internal/rod"
)

type halvingStepper struct{}

func (h *halvingStepper) Name() string { return "halving" }

func (h *halvingStepper) Step(cur, next rod.Field) error {
	for i := range cur {
		next[i] = cur[i] / 2
	}
	return nil
}

type failingStepper struct{ after, calls int }

func (f *failingStepper) Name() string { return "failing" }

func (f *failingStepper) Step(cur, next rod.Field) error {
	f.calls++
	if f.calls > f.after {
		return rod.ErrSingular
	}
	copy(next, cur)
	return nil
}

type countMetric struct {
	count int
	last  float64
}

func (c *countMetric) Name() string                   { return "count" }
func (c *countMetric) Observe(f rod.Field, t float64) { c.count++; c.last = t }
func (c *countMetric) Value() float64                 { return float64(c.count) }
func (c *countMetric) Reset()                         { c.count = 0; c.last = 0 }

func TestSimulatorRun(t *testing.T) {
	sim := New(&halvingStepper{})

	x0 := rod.Field{8, 8, 8}
	result, err := sim.Run(x0, Config{Dt: 0.1, Duration: 0.3})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.Steps != 3 {
		t.Errorf("expected 3 steps, got %d", result.Steps)
	}
	if result.Final[1] != 1 {
		t.Errorf("expected final value 1, got %v", result.Final[1])
	}
	if x0[1] != 8 || result.Initial[1] != 8 {
		t.Error("initial field must be preserved")
	}
}

func TestSimulatorMetrics(t *testing.T) {
	sim := New(&halvingStepper{})
	metric := &countMetric{}
	sim.AddMetric(metric)

	result, err := sim.Run(rod.Field{1, 1, 1}, Config{Dt: 0.5, Duration: 5})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if got := result.Metrics["count"]; got != 11 {
		t.Errorf("expected 11 observations (initial + 10 steps), got %v", got)
	}
	if metric.last != 5 {
		t.Errorf("expected last observation at t=5, got %v", metric.last)
	}
}

func TestSimulatorObserverTimes(t *testing.T) {
	sim := New(&halvingStepper{})
	var steps []int
	var times []float64
	sim.AddObserver(observerFunc(func(step int, t float64, _ rod.Field) {
		steps = append(steps, step)
		times = append(times, t)
	}))

	if _, err := sim.Run(rod.Field{1, 1, 1}, Config{Dt: 0.1, Duration: 0.3}); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	wantTimes := []float64{0, 0.1, 0.2, 0.30000000000000004}
	if len(steps) != 4 {
		t.Fatalf("expected 4 notifications, got %d", len(steps))
	}
	for i := range steps {
		if steps[i] != i {
			t.Errorf("notification %d has step %d", i, steps[i])
		}
		if times[i] != wantTimes[i] {
			t.Errorf("notification %d at t=%v, want %v", i, times[i], wantTimes[i])
		}
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	sim := New(&halvingStepper{})

	tests := []struct {
		name string
		x0   rod.Field
		cfg  Config
	}{
		{"zero dt", rod.Field{1, 1, 1}, Config{Dt: 0, Duration: 1.0}},
		{"negative dt", rod.Field{1, 1, 1}, Config{Dt: -0.1, Duration: 1.0}},
		{"negative duration", rod.Field{1, 1, 1}, Config{Dt: 0.1, Duration: -1.0}},
		{"too few points", rod.Field{1, 1}, Config{Dt: 0.1, Duration: 1.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sim.Run(tt.x0, tt.cfg)
			if !errors.Is(err, rod.ErrConfig) {
				t.Errorf("expected ErrConfig, got %v", err)
			}
		})
	}
}

func TestSimulatorStepFailure(t *testing.T) {
	sim := New(&failingStepper{after: 2})

	_, err := sim.Run(rod.Field{1, 1, 1}, Config{Dt: 0.5, Duration: 5})
	if !errors.Is(err, rod.ErrSingular) {
		t.Fatalf("expected ErrSingular, got %v", err)
	}
	var serr *rod.SimulationError
	if !errors.As(err, &serr) {
		t.Fatalf("expected *rod.SimulationError, got %T", err)
	}
	if serr.Step != 3 || serr.Time != 1.5 {
		t.Errorf("expected failure at step 3 (t=1.5), got step %d (t=%v)", serr.Step, serr.Time)
	}
}

func TestSimulatorDeterministic(t *testing.T) {
	p := rodParams(51, 0.1, 150)
	x0 := rod.InitialField(p.Grid(), p.Initial, p.Boundary)

	run := func(step Stepper) rod.Field {
		res, err := New(step).Run(x0, Config{Dt: p.Dt, Duration: p.TFinal})
		if err != nil {
			t.Fatalf("run failed: %v", err)
		}
		return res.Final
	}

	a := run(NewExplicit(p.Fourier(), p.Boundary))
	b := run(NewExplicit(p.Fourier(), p.Boundary))
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("explicit runs differ at %d: %v vs %v", i, a[i], b[i])
		}
	}

	m1, _ := NewImplicit(p.Points, p.Fourier(), p.Boundary)
	m2, _ := NewImplicit(p.Points, p.Fourier(), p.Boundary)
	c, d := run(m1), run(m2)
	for i := range c {
		if c[i] != d[i] {
			t.Fatalf("implicit runs differ at %d: %v vs %v", i, c[i], d[i])
		}
	}
}
