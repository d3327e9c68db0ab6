package export

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"image/png"

	"github.com/icza/mjpeg"
	log "github.com/sirupsen/logrus"
	"github.com/wcharczuk/go-chart/v2"

	"github.com/san-kum/heatsim/internal/snapshot"
)

// AnimationOptions sizes the video. Zero fields take the defaults.
type AnimationOptions struct {
	Width   int
	Height  int
	FPS     int
	Quality int
}

func (o AnimationOptions) withDefaults() AnimationOptions {
	if o.Width <= 0 {
		o.Width = 800
	}
	if o.Height <= 0 {
		o.Height = 480
	}
	if o.FPS <= 0 {
		o.FPS = 20
	}
	if o.Quality <= 0 || o.Quality > 100 {
		o.Quality = 90
	}
	return o
}

// FrameFigure is the figure for one snapshot, on the axis shared by the whole series.
func FrameFigure(positions []float64, fr snapshot.Frame, yMin, yMax float64) Figure {
	return Figure{
		Title:  fmt.Sprintf("Temperature evolution   Time = %.2f s", fr.Time),
		XLabel: "Position along the rod (m)",
		YLabel: "Temperature (C)",
		Lines:  []Line{{Name: "Temperature", X: positions, Y: fr.Field, Stroke: "#1f77b4"}},
		YMin:   yMin,
		YMax:   yMax,
	}
}

// SeriesRange is the temperature axis that fits every frame of the series.
func SeriesRange(series snapshot.Series) (lo, hi float64) {
	lines := make([]Line, len(series))
	for i, fr := range series {
		lines[i] = Line{Y: fr.Field}
	}
	return span(lines)
}

// WriteAnimation renders every frame of series and writes them as an MJPEG
// AVI file at path.
func WriteAnimation(path string, positions []float64, series snapshot.Series, opts AnimationOptions) error {
	if len(series) == 0 {
		return fmt.Errorf("export: no snapshots to animate")
	}
	for i, fr := range series {
		if len(fr.Field) != len(positions) {
			return fmt.Errorf("export: frame %d has %d values for %d positions", i, len(fr.Field), len(positions))
		}
	}
	opts = opts.withDefaults()
	yMin, yMax := SeriesRange(series)

	aw, err := mjpeg.New(path, int32(opts.Width), int32(opts.Height), int32(opts.FPS))
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	var pngBuf, jpgBuf bytes.Buffer
	for i, fr := range series {
		pngBuf.Reset()
		jpgBuf.Reset()

		graph := FrameFigure(positions, fr, yMin, yMax).Chart(opts.Width, opts.Height)
		if err := graph.Render(chart.PNG, &pngBuf); err != nil {
			aw.Close()
			return fmt.Errorf("render frame %d: %w", i, err)
		}
		img, err := png.Decode(&pngBuf)
		if err != nil {
			aw.Close()
			return fmt.Errorf("decode frame %d: %w", i, err)
		}
		if err := jpeg.Encode(&jpgBuf, img, &jpeg.Options{Quality: opts.Quality}); err != nil {
			aw.Close()
			return fmt.Errorf("encode frame %d: %w", i, err)
		}
		if err := aw.AddFrame(jpgBuf.Bytes()); err != nil {
			aw.Close()
			return fmt.Errorf("add frame %d: %w", i, err)
		}
	}

	if err := aw.Close(); err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"path":   path,
		"frames": len(series),
		"fps":    opts.FPS,
	}).Info("animation written")
	return nil
}
