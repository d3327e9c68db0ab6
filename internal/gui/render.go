package gui

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/heatsim/internal/snapshot"
)

// Plot area for the temperature profile, in screen pixels.
const (
	plotX, plotY = 110, 120
	plotW, plotH = 1060, 400
	rodY, rodH   = 560, 60
)

// axisRange pads the extremes of every frame by 5% so the axis never moves.
func axisRange(series snapshot.Series) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, fr := range series {
		for _, v := range fr.Field {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			lo, hi = math.Min(lo, v), math.Max(hi, v)
		}
	}
	if math.IsInf(lo, 1) {
		return 0, 1
	}
	pad := 0.05 * (hi - lo)
	if pad == 0 {
		pad = 1
	}
	return lo - pad, hi + pad
}

func (a *App) toScreen(i int, v float64) rl.Vector2 {
	n := len(a.Positions)
	x0, x1 := a.Positions[0], a.Positions[n-1]
	fx := 0.0
	if x1 > x0 {
		fx = (a.Positions[i] - x0) / (x1 - x0)
	}
	v = math.Max(a.lo, math.Min(a.hi, v))
	fy := (v - a.lo) / (a.hi - a.lo)
	return rl.NewVector2(float32(plotX+fx*plotW), float32(plotY+plotH-fy*plotH))
}

func (a *App) drawProfile() {
	for i := 0; i <= 4; i++ {
		y := int32(plotY + i*plotH/4)
		rl.DrawLine(plotX, y, plotX+plotW, y, colGrid)
		val := a.hi - float64(i)*(a.hi-a.lo)/4
		a.drawText(fmt.Sprintf("%7.1f", val), 20, int(y)-8, 14, colText)
	}
	rl.DrawRectangleLines(plotX, plotY, plotW, plotH, colTextDim)
	a.drawText("Temperature (C)", plotX, plotY-24, 14, colText)
	a.drawText("Position along the rod (m)", plotX+plotW-230, plotY+plotH+8, 14, colText)

	field := a.Series[a.Frame].Field
	if len(field) != len(a.Positions) || len(field) < 2 {
		return
	}
	points := make([]rl.Vector2, len(field))
	for i, v := range field {
		points[i] = a.toScreen(i, v)
	}
	rl.DrawLineStrip(points, colSelect)
}

// drawRod paints one cell per grid point, coloured by temperature.
func (a *App) drawRod() {
	field := a.Series[a.Frame].Field
	n := len(field)
	if n == 0 {
		return
	}
	cell := float32(plotW) / float32(n)
	for i, v := range field {
		x := float32(plotX) + float32(i)*cell
		rl.DrawRectangleV(rl.NewVector2(x, rodY), rl.NewVector2(cell+1, rodH), heatColor(v, a.lo, a.hi))
	}
	rl.DrawRectangleLines(plotX, rodY, plotW, rodH, colTextDim)
}

// heatColor runs cold to warm to hot over [lo, hi].
func heatColor(v, lo, hi float64) rl.Color {
	t := 0.0
	if hi > lo && !math.IsNaN(v) {
		t = math.Max(0, math.Min(1, (v-lo)/(hi-lo)))
	}
	if t < 0.5 {
		return lerp(colCold, colWarm, t*2)
	}
	return lerp(colWarm, colHot, (t-0.5)*2)
}

func lerp(a, b rl.Color, t float64) rl.Color {
	mix := func(x, y uint8) uint8 { return uint8(float64(x) + (float64(y)-float64(x))*t + 0.5) }
	return rl.NewColor(mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B), 255)
}
