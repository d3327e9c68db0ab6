package metrics

import "github.com/san-kum/heatsim/internal/rod"

// HeatContent reports the trapezoidal integral of temperature along the rod
// for the most recent field, in temperature·length units.
type HeatContent struct {
	name    string
	dx      float64
	initial float64
	current float64
	samples int
}

func NewHeatContent(dx float64) *HeatContent {
	return &HeatContent{name: "heat_content", dx: dx}
}

func (h *HeatContent) Name() string { return h.name }

func (h *HeatContent) Observe(f rod.Field, t float64) {
	q := Integrate(f, h.dx)
	if h.samples == 0 {
		h.initial = q
	}
	h.current = q
	h.samples++
}

func (h *HeatContent) Value() float64 {
	return h.current
}

// Change is the heat gained since the first observation.
func (h *HeatContent) Change() float64 {
	return h.current - h.initial
}

func (h *HeatContent) Reset() {
	h.initial = 0
	h.current = 0
	h.samples = 0
}

// Integrate applies the trapezoidal rule with spacing dx.
func Integrate(f rod.Field, dx float64) float64 {
	n := len(f)
	if n < 2 {
		return 0
	}
	sum := 0.5 * (f[0] + f[n-1])
	for i := 1; i < n-1; i++ {
		sum += f[i]
	}
	return sum * dx
}
