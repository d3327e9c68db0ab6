package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/san-kum/heatsim/internal/experiment"
)

// Chart lays the figure out as a go-chart line chart with a legend.
func (f Figure) Chart(width, height int) chart.Chart {
	series := make([]chart.Series, 0, len(f.Lines))
	for _, l := range f.Lines {
		if len(l.X) == 0 {
			continue
		}
		style := chart.Style{
			StrokeColor: drawing.ColorFromHex(strings.TrimPrefix(l.Stroke, "#")),
			StrokeWidth: 2,
		}
		if l.Dashed {
			style.StrokeDashArray = []float64{6, 4}
		}
		series = append(series, chart.ContinuousSeries{
			Name:    l.Name,
			XValues: l.X,
			YValues: finite(l.Y, f.YMin, f.YMax),
			Style:   style,
		})
	}

	graph := chart.Chart{
		Title:  f.Title,
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name: f.XLabel,
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%.1f", v.(float64))
			},
		},
		YAxis: chart.YAxis{
			Name:  f.YLabel,
			Range: &chart.ContinuousRange{Min: f.YMin, Max: f.YMax},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return graph
}

// RenderPNG writes the figure as a PNG image.
func (f Figure) RenderPNG(w io.Writer, width, height int) error {
	graph := f.Chart(width, height)
	if len(graph.Series) == 0 {
		return fmt.Errorf("export: no lines to draw")
	}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render %q: %w", f.Title, err)
	}
	return nil
}

// ComparisonPNG writes the comparison figure of rep as PNG.
func ComparisonPNG(w io.Writer, rep *experiment.Report, width, height int) error {
	return ComparisonFigure(rep).RenderPNG(w, width, height)
}

// finite clamps values into [lo, hi] so a diverged run still renders.
func finite(values []float64, lo, hi float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			v = lo
		}
		out[i] = math.Max(lo, math.Min(hi, v))
	}
	return out
}
