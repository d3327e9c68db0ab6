// Package export writes finished runs as image and video files: SVG and PNG
// comparison plots and an MJPEG (AVI) animation of a snapshot series.
package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/heatsim/internal/experiment"
)

// Figure is a titled set of profile lines with a shared temperature axis.
type Figure struct {
	Title  string
	XLabel string
	YLabel string
	Lines  []Line
	YMin   float64
	YMax   float64
}

// ComparisonFigure plots the final field against the initial field and, for
// verification runs, against the analytical solution.
func ComparisonFigure(rep *experiment.Report) Figure {
	scheme := strings.ToUpper(rep.Scheme)
	fig := Figure{
		Title:  fmt.Sprintf("Temperature Distribution using %s method", scheme),
		XLabel: "Position along the rod (m)",
		YLabel: "Temperature (C)",
	}
	if rep.Verified() {
		fig.Title = fmt.Sprintf("Verification of %s solver at final time (%gs)", scheme, rep.Params.TFinal)
		fig.YLabel = "Temperature (unitless)"
		fig.Lines = append(fig.Lines, Line{Name: "Analytical Solution", X: rep.Positions, Y: rep.Analytical, Stroke: "#3399ff"})
	}
	fig.Lines = append(fig.Lines,
		Line{Name: fmt.Sprintf("%s Numerical Solution (t=%gs)", scheme, rep.Params.TFinal), X: rep.Positions, Y: rep.Final, Stroke: "#00cc44"},
		Line{Name: "Initial temperature (t=0)", X: rep.Positions, Y: rep.Initial, Stroke: "#ff4444", Dashed: true},
	)
	fig.YMin, fig.YMax = span(fig.Lines)
	return fig
}

// span covers every finite value with 5% headroom.
func span(lines []Line) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, l := range lines {
		for _, v := range l.Y {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			lo, hi = math.Min(lo, v), math.Max(hi, v)
		}
	}
	if math.IsInf(lo, 1) {
		return -1, 1
	}
	pad := 0.05 * (hi - lo)
	if pad == 0 {
		pad = 1
	}
	return lo - pad, hi + pad
}

// ComparisonSVG writes the comparison figure of rep as SVG.
func ComparisonSVG(w io.Writer, rep *experiment.Report, width, height int) error {
	fig := ComparisonFigure(rep)
	return ProfileSVG(w, fig.Lines, width, height, fig.YMin, fig.YMax)
}
