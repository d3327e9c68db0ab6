package experiment

import (
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Level is one refinement of a convergence study.
type Level struct {
	Points   int
	Dt       float64
	Fourier  float64
	Steps    int
	MaxError float64
	// Order is log2 of the error ratio to the previous level, in powers of dx.
	Order float64
}

// Converge runs the verification configuration on levels successively
// refined grids: each level halves dx and quarters dt, so Fo is unchanged.
// Levels are independent runs and execute concurrently.
func Converge(cfg Config, levels int) ([]Level, error) {
	if levels < 1 {
		return nil, fmt.Errorf("converge: need at least one level, got %d", levels)
	}
	cfg.Verify = true
	cfg.SampleEvery = 0

	out := make([]Level, levels)
	var g errgroup.Group
	for i := 0; i < levels; i++ {
		lc := cfg
		lc.Params.Points = (cfg.Params.Points-1)<<i + 1
		lc.Params.Dt = cfg.Params.Dt / math.Pow(4, float64(i))
		lc.Name = fmt.Sprintf("%s/level-%d", cfg.Name, i)

		g.Go(func() error {
			rep, err := New(lc).WithLogger(quiet()).Run()
			if err != nil {
				return fmt.Errorf("level %d: %w", i, err)
			}
			out[i] = Level{
				Points:   lc.Params.Points,
				Dt:       lc.Params.Dt,
				Fourier:  rep.Stability.Fourier,
				Steps:    rep.Steps,
				MaxError: rep.MaxError,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := 1; i < levels; i++ {
		if out[i].MaxError > 0 {
			// error ~ dx^p and dx halves per level.
			out[i].Order = math.Log2(out[i-1].MaxError / out[i].MaxError)
		}
	}
	return out, nil
}

// quiet keeps per-level chatter out of the study output.
func quiet() log.FieldLogger {
	std := log.StandardLogger()
	l := log.New()
	l.SetOutput(std.Out)
	l.SetFormatter(std.Formatter)
	l.SetLevel(log.WarnLevel)
	if std.IsLevelEnabled(log.DebugLevel) {
		l.SetLevel(std.GetLevel())
	}
	return l
}
