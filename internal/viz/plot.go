package viz

import (
	"fmt"
	"math"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/heatsim/internal/experiment"
)

// Curve is one position-ordered series of a profile plot.
type Curve struct {
	Name   string
	Values []float64
	Color  asciigraph.AnsiColor
}

// PlotProfiles draws the curves on a shared temperature axis. Every curve is
// resampled to width columns, so the x axis is position along the rod.
func PlotProfiles(caption string, width, height int, curves ...Curve) string {
	data := make([][]float64, 0, len(curves))
	colors := make([]asciigraph.AnsiColor, 0, len(curves))
	names := make([]string, 0, len(curves))
	for _, c := range curves {
		if len(c.Values) == 0 {
			continue
		}
		data = append(data, sanitize(c.Values))
		colors = append(colors, c.Color)
		names = append(names, c.Name)
	}
	if len(data) == 0 {
		return ""
	}

	return asciigraph.PlotMany(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(2),
		asciigraph.SeriesColors(colors...),
		asciigraph.SeriesLegends(names...),
		asciigraph.Caption(caption),
	)
}

// ReportPlot is the comparison plot of a run: initial, numerical final and,
// for verification runs, the analytical solution.
func ReportPlot(rep *experiment.Report, width, height int) string {
	caption := fmt.Sprintf("%s: temperature along the rod at t=%gs", rep.Scheme, rep.Params.TFinal)
	if rep.Verified() {
		caption = fmt.Sprintf("verification of %s solver at t=%gs (max error %.3g)", rep.Scheme, rep.Params.TFinal, rep.MaxError)
	}

	curves := []Curve{
		{Name: "initial (t=0)", Values: rep.Initial, Color: asciigraph.Red},
		{Name: rep.Scheme, Values: rep.Final, Color: asciigraph.Green},
	}
	if rep.Verified() {
		curves = append(curves, Curve{Name: "analytical", Values: rep.Analytical, Color: asciigraph.White})
	}
	return PlotProfiles(caption, width, height, curves...)
}

// SpectrumPlot draws mode power against mode number.
func SpectrumPlot(power []float64, width, height int) string {
	if len(power) == 0 {
		return ""
	}
	return asciigraph.Plot(sanitize(power),
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption("sine mode power b_k^2"),
	)
}

// sanitize replaces non-finite values, which asciigraph cannot scale.
func sanitize(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		switch {
		case math.IsNaN(v):
			out[i] = 0
		case math.IsInf(v, 1):
			out[i] = math.MaxFloat32
		case math.IsInf(v, -1):
			out[i] = -math.MaxFloat32
		default:
			out[i] = v
		}
	}
	return out
}
