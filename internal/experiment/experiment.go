package experiment

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/san-kum/heatsim/internal/analytic"
	"github.com/san-kum/heatsim/internal/metrics"
	"github.com/san-kum/heatsim/internal/rod"
	"github.com/san-kum/heatsim/internal/snapshot"
	"github.com/san-kum/heatsim/internal/solver"
	"github.com/san-kum/heatsim/internal/stability"
)

type Config struct {
	Name   string
	Scheme string
	Params rod.Params
	// SampleEvery > 0 records a snapshot series at that step interval.
	SampleEvery int
	// Verify compares the final field with the sinusoidal reference.
	Verify bool
	// Strict turns the explicit stability advisory into an error.
	Strict bool
}

type Report struct {
	Name       string
	Scheme     string
	Params     rod.Params
	Positions  []float64
	Initial    rod.Field
	Final      rod.Field
	Analytical rod.Field
	MaxError   float64
	RMSError   float64
	Snapshots  snapshot.Series
	Steps      int
	Stability  stability.Report
	Metrics    map[string]float64
	Elapsed    time.Duration
}

// Verified reports whether the run carried an analytical comparison.
func (r *Report) Verified() bool { return r.Analytical != nil }

type Experiment struct {
	cfg      Config
	registry *Registry
	logger   log.FieldLogger
}

func New(cfg Config) *Experiment {
	return &Experiment{
		cfg:      cfg,
		registry: NewRegistry(),
		logger:   log.StandardLogger(),
	}
}

// WithRegistry replaces the scheme registry.
func (e *Experiment) WithRegistry(r *Registry) *Experiment {
	e.registry = r
	return e
}

func (e *Experiment) WithLogger(l log.FieldLogger) *Experiment {
	e.logger = l
	return e
}

// Run validates the configuration, steps the rod to t_final and assembles the report.
func (e *Experiment) Run() (*Report, error) {
	cfg := e.cfg
	p := cfg.Params
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if cfg.Verify && !analytic.Applicable(p.Boundary) {
		return nil, &rod.ConfigError{Field: "verify", Reason: fmt.Sprintf("requires zero boundaries, got %g/%g", p.Boundary.Left, p.Boundary.Right)}
	}

	stab := stability.ForParams(p)
	fields := log.Fields{
		"run":     cfg.Name,
		"scheme":  cfg.Scheme,
		"fourier": stab.Fourier,
		"nx":      p.Points,
		"dt":      p.Dt,
	}
	e.logger.WithFields(fields).Info("fourier number computed")
	if e.registry.ConditionallyStable(cfg.Scheme) && stab.Exceeded {
		if cfg.Strict {
			return nil, stab.Err()
		}
		e.logger.WithFields(fields).Warn("Fo must be <= 0.5, simulation likely to become unstable")
	}

	stepper, err := e.registry.GetStepper(cfg.Scheme, p)
	if err != nil {
		return nil, err
	}

	grid := p.Grid()
	x0 := rod.InitialField(grid, p.Initial, p.Boundary)

	sim := solver.New(stepper)
	lo, hi := metrics.EnvelopeOf(x0, p.Boundary)
	bounds := metrics.NewBounds(lo, hi)
	sim.AddMetric(bounds)
	sim.AddMetric(metrics.NewHeatContent(grid.Dx))

	var rec *snapshot.Recorder
	if cfg.SampleEvery > 0 {
		rec, err = snapshot.NewRecorder(cfg.SampleEvery)
		if err != nil {
			return nil, err
		}
		sim.AddObserver(rec)
	}

	start := time.Now()
	res, err := sim.Run(x0, solver.Config{Dt: p.Dt, Duration: p.TFinal})
	if err != nil {
		return nil, fmt.Errorf("%s run: %w", cfg.Scheme, err)
	}
	elapsed := time.Since(start)

	report := &Report{
		Name:      cfg.Name,
		Scheme:    cfg.Scheme,
		Params:    p,
		Positions: grid.Positions(),
		Initial:   res.Initial,
		Final:     res.Final,
		Steps:     res.Steps,
		Stability: stab,
		Metrics:   res.Metrics,
		Elapsed:   elapsed,
	}
	report.Metrics["min"] = bounds.Min()
	report.Metrics["max"] = bounds.Max()
	if rec != nil {
		report.Snapshots = rec.Series()
	}

	if cfg.Verify {
		report.Analytical = analytic.Sinusoid(p.Alpha, p.TFinal, grid)
		if report.MaxError, err = analytic.MaxError(report.Final, report.Analytical); err != nil {
			return nil, err
		}
		if report.RMSError, err = analytic.RMSError(report.Final, report.Analytical); err != nil {
			return nil, err
		}
	}

	done := e.logger.WithFields(log.Fields{
		"run":     cfg.Name,
		"scheme":  cfg.Scheme,
		"steps":   report.Steps,
		"elapsed": elapsed,
	})
	if report.Verified() {
		done = done.WithField("max_error", report.MaxError)
	}
	done.Info("simulation done")

	return report, nil
}
