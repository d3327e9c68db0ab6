// Package optim sweeps run parameters over a grid and picks the best point
// by a report metric.
package optim

import (
	"context"
	"fmt"
	"io"
	"math"
	"runtime"
	"sort"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/heatsim/internal/experiment"
	"github.com/san-kum/heatsim/internal/stability"
)

// Parameters a sweep axis may vary.
const (
	ParamDt     = "dt"
	ParamNx     = "nx"
	ParamAlpha  = "alpha"
	ParamLength = "length"
	ParamTFinal = "t_final"
)

// Extra metrics a point carries besides the run metrics.
const (
	MetricMaxError = "max_error"
	MetricRMSError = "rms_error"
)

type Axis struct {
	Name   string
	Values []float64
}

// Point is one evaluated combination. Err is set when the run was rejected
// or failed; Metrics is empty then.
type Point struct {
	Values    map[string]float64
	Stability stability.Report
	Metrics   map[string]float64
	Err       error
}

type GridSearch struct {
	axes    []Axis
	workers int
	logger  log.FieldLogger
}

func NewGridSearch(axes ...Axis) (*GridSearch, error) {
	if len(axes) == 0 {
		return nil, fmt.Errorf("optim: no axes to sweep")
	}
	seen := map[string]bool{}
	for _, a := range axes {
		switch a.Name {
		case ParamDt, ParamNx, ParamAlpha, ParamLength, ParamTFinal:
		default:
			return nil, fmt.Errorf("optim: unknown parameter %q", a.Name)
		}
		if seen[a.Name] {
			return nil, fmt.Errorf("optim: parameter %q swept twice", a.Name)
		}
		if len(a.Values) == 0 {
			return nil, fmt.Errorf("optim: axis %q has no values", a.Name)
		}
		seen[a.Name] = true
	}
	discard := log.New()
	discard.SetOutput(io.Discard)
	return &GridSearch{axes: axes, workers: runtime.NumCPU(), logger: discard}, nil
}

// WithWorkers bounds the number of concurrent runs.
func (g *GridSearch) WithWorkers(n int) *GridSearch {
	if n > 0 {
		g.workers = n
	}
	return g
}

func (g *GridSearch) WithLogger(l log.FieldLogger) *GridSearch {
	g.logger = l
	return g
}

// Points enumerates the cartesian product, the last axis varying fastest.
func (g *GridSearch) Points() []map[string]float64 {
	out := []map[string]float64{{}}
	for _, a := range g.axes {
		next := make([]map[string]float64, 0, len(out)*len(a.Values))
		for _, p := range out {
			for _, v := range a.Values {
				q := make(map[string]float64, len(p)+1)
				for k, pv := range p {
					q[k] = pv
				}
				q[a.Name] = v
				next = append(next, q)
			}
		}
		out = next
	}
	return out
}

// Run evaluates every point from base. Individual run failures are recorded
// on their point; only cancellation aborts the sweep.
func (g *GridSearch) Run(ctx context.Context, base experiment.Config) ([]Point, error) {
	values := g.Points()
	out := make([]Point, len(values))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)
	for i, vals := range values {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			cfg := base
			cfg.SampleEvery = 0
			cfg.Name = fmt.Sprintf("%s/sweep-%d", base.Name, i)
			for name, v := range vals {
				apply(&cfg, name, v)
			}

			pt := Point{Values: vals, Stability: stability.ForParams(cfg.Params)}
			rep, err := experiment.New(cfg).WithLogger(g.logger).Run()
			if err != nil {
				pt.Err = err
			} else {
				pt.Metrics = make(map[string]float64, len(rep.Metrics)+2)
				for k, v := range rep.Metrics {
					pt.Metrics[k] = v
				}
				if rep.Verified() {
					pt.Metrics[MetricMaxError] = rep.MaxError
					pt.Metrics[MetricRMSError] = rep.RMSError
				}
			}
			out[i] = pt
			g.logger.WithFields(log.Fields{"point": i, "values": vals, "fourier": pt.Stability.Fourier}).Debug("sweep point done")
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func apply(cfg *experiment.Config, name string, v float64) {
	p := &cfg.Params
	switch name {
	case ParamDt:
		p.Dt = v
	case ParamNx:
		p.Points = int(math.Round(v))
	case ParamAlpha:
		p.Alpha = v
	case ParamLength:
		p.Initial = p.Initial.Scaled(p.Length, v)
		p.Length = v
	case ParamTFinal:
		p.TFinal = v
	}
}

// Best returns the successful point with the smallest finite metric value.
func Best(points []Point, metric string) (Point, bool) {
	best, found := Point{}, false
	for _, p := range points {
		if p.Err != nil {
			continue
		}
		v, ok := p.Metrics[metric]
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if !found || v < best.Metrics[metric] {
			best, found = p, true
		}
	}
	return best, found
}

// Names lists the swept parameters of a point in a stable order.
func (p Point) Names() []string {
	names := make([]string, 0, len(p.Values))
	for k := range p.Values {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
