// Package stability evaluates the von Neumann bound of the explicit scheme.
package stability

import (
	"fmt"

	"github.com/san-kum/heatsim/internal/rod"
)

// Limit is the largest Fourier number for which FTCS stays bounded.
const Limit = 0.5

// Report is the outcome of a stability check for one run.
type Report struct {
	Fourier  float64
	Limit    float64
	Exceeded bool
}

// Analyze computes Fo = alpha*dt/dx^2 and compares it with Limit. It never
// rejects a run; callers decide what an exceeded limit means.
func Analyze(alpha, dt, dx float64) Report {
	fo := alpha * dt / (dx * dx)
	return Report{Fourier: fo, Limit: Limit, Exceeded: fo > Limit}
}

// ForParams runs Analyze on the grid spacing implied by p.
func ForParams(p rod.Params) Report {
	return Analyze(p.Alpha, p.Dt, p.Grid().Dx)
}

// Err returns rod.ErrUnstable when the limit is exceeded.
func (r Report) Err() error {
	if !r.Exceeded {
		return nil
	}
	return fmt.Errorf("%w: Fo=%.4g > %.2g", rod.ErrUnstable, r.Fourier, r.Limit)
}

func (r Report) String() string {
	if r.Exceeded {
		return fmt.Sprintf("Fo=%g (WARNING: must be <= %g, simulation likely to become unstable)", r.Fourier, r.Limit)
	}
	return fmt.Sprintf("Fo=%g", r.Fourier)
}
