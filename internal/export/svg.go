package export

import (
	"fmt"
	"io"
	"math"
	"strings"
)

// Line is one polyline of a profile figure, drawn against position.
type Line struct {
	Name   string
	X, Y   []float64
	Stroke string
	Dashed bool
}

// ProfileSVG draws the lines in a width×height figure with a fixed
// [yMin, yMax] temperature axis. Points outside the axis are clipped.
func ProfileSVG(w io.Writer, lines []Line, width, height int, yMin, yMax float64) error {
	if len(lines) == 0 {
		return fmt.Errorf("export: no lines to draw")
	}
	if !(yMax > yMin) {
		return fmt.Errorf("export: empty temperature axis [%g, %g]", yMin, yMax)
	}

	xMin, xMax := math.Inf(1), math.Inf(-1)
	for _, l := range lines {
		if len(l.X) != len(l.Y) {
			return fmt.Errorf("export: line %q has %d positions and %d values", l.Name, len(l.X), len(l.Y))
		}
		for _, x := range l.X {
			xMin, xMax = math.Min(xMin, x), math.Max(xMax, x)
		}
	}
	if !(xMax > xMin) {
		xMax = xMin + 1
	}

	const margin = 40.0
	pw, ph := float64(width)-2*margin, float64(height)-2*margin
	sx := func(x float64) float64 { return margin + (x-xMin)/(xMax-xMin)*pw }
	sy := func(y float64) float64 {
		if math.IsNaN(y) {
			y = yMin
		}
		y = math.Max(yMin, math.Min(yMax, y))
		return margin + ph - (y-yMin)/(yMax-yMin)*ph
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="#444466"/>
`, width, height, width, height, margin, margin, pw, ph)
	fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" fill="#888899" font-size="10">%g</text>
<text x="%.1f" y="%.1f" fill="#888899" font-size="10">%g</text>
`, 2.0, margin+4, yMax, 2.0, margin+ph, yMin)

	for i, l := range lines {
		if len(l.X) == 0 {
			continue
		}
		dash := ""
		if l.Dashed {
			dash = ` stroke-dasharray="6,4"`
		}
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5"%s d="M`, l.Stroke, dash)
		for j := range l.X {
			if j > 0 {
				sb.WriteString(" L")
			}
			fmt.Fprintf(&sb, "%.1f,%.1f", sx(l.X[j]), sy(l.Y[j]))
		}
		sb.WriteString("\"/>\n")
		fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" fill="%s" font-size="12">%s</text>
`, margin+8, margin+16+14*float64(i), l.Stroke, escape(l.Name))
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

func escape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
