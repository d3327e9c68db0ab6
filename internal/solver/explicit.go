package solver

import (
	"fmt"

	"github.com/san-kum/heatsim/internal/rod"
)

// Explicit is the FTCS scheme new[i] = old[i] + Fo*(old[i+1] - 2*old[i] + old[i-1]).
type Explicit struct {
	fo float64
	bc rod.Boundary
}

func NewExplicit(fo float64, bc rod.Boundary) *Explicit {
	return &Explicit{fo: fo, bc: bc}
}

func (e *Explicit) Name() string { return "explicit" }

func (e *Explicit) Step(cur, next rod.Field) error {
	n := len(cur)
	if len(next) != n {
		return fmt.Errorf("%w: cur has %d points, next has %d", rod.ErrDimensionMismatch, n, len(next))
	}
	for i := 1; i < n-1; i++ {
		next[i] = cur[i] + e.fo*(cur[i+1]-2*cur[i]+cur[i-1])
	}
	e.bc.Apply(next)
	return nil
}
