package metrics

import (
	"math"

	"github.com/san-kum/heatsim/internal/rod"
	"gonum.org/v1/gonum/floats"
)

// Bounds tracks how often the field stays inside [lo, hi], the envelope
// guaranteed by the maximum principle for a stable scheme.
type Bounds struct {
	name       string
	lo, hi     float64
	tolerance  float64
	violations int
	samples    int
	min, max   float64
}

func NewBounds(lo, hi float64) *Bounds {
	b := &Bounds{
		name:      "bounded",
		lo:        lo,
		hi:        hi,
		tolerance: 1e-9 * math.Max(1, math.Max(math.Abs(lo), math.Abs(hi))),
	}
	b.Reset()
	return b
}

// EnvelopeOf returns the bounds implied by the initial field and the boundary values.
func EnvelopeOf(initial rod.Field, bc rod.Boundary) (lo, hi float64) {
	lo, hi = math.Min(bc.Left, bc.Right), math.Max(bc.Left, bc.Right)
	if len(initial) > 0 {
		lo = math.Min(lo, floats.Min(initial))
		hi = math.Max(hi, floats.Max(initial))
	}
	return lo, hi
}

func (b *Bounds) Name() string {
	return b.name
}

func (b *Bounds) Observe(f rod.Field, t float64) {
	if len(f) == 0 {
		return
	}
	b.samples++
	fmin, fmax := floats.Min(f), floats.Max(f)
	b.min = math.Min(b.min, fmin)
	b.max = math.Max(b.max, fmax)
	if fmin < b.lo-b.tolerance || fmax > b.hi+b.tolerance || !f.IsValid() {
		b.violations++
	}
}

// Value is the fraction of observed fields inside the envelope.
func (b *Bounds) Value() float64 {
	if b.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(b.violations)/float64(b.samples)
}

func (b *Bounds) Min() float64 { return b.min }
func (b *Bounds) Max() float64 { return b.max }

func (b *Bounds) Reset() {
	b.violations = 0
	b.samples = 0
	b.min = math.Inf(1)
	b.max = math.Inf(-1)
}
