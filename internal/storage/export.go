package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/heatsim/internal/experiment"
	"github.com/san-kum/heatsim/internal/rod"
	"github.com/san-kum/heatsim/internal/snapshot"
)

type ExportData struct {
	Name       string             `json:"name"`
	Scheme     string             `json:"scheme"`
	Length     float64            `json:"length"`
	Alpha      float64            `json:"alpha"`
	TFinal     float64            `json:"t_final"`
	Points     int                `json:"nx"`
	Dt         float64            `json:"dt"`
	Fourier    float64            `json:"fourier"`
	Steps      int                `json:"steps"`
	Positions  []float64          `json:"positions"`
	Initial    []float64          `json:"initial"`
	Final      []float64          `json:"final"`
	Analytical []float64          `json:"analytical,omitempty"`
	MaxError   *float64           `json:"max_error,omitempty"`
	Snapshots  snapshot.Series    `json:"snapshots,omitempty"`
	Metrics    map[string]float64 `json:"metrics"`
}

func NewExportData(rep *experiment.Report) ExportData {
	p := rep.Params
	data := ExportData{
		Name:       rep.Name,
		Scheme:     rep.Scheme,
		Length:     p.Length,
		Alpha:      p.Alpha,
		TFinal:     p.TFinal,
		Points:     p.Points,
		Dt:         p.Dt,
		Fourier:    rep.Stability.Fourier,
		Steps:      rep.Steps,
		Positions:  rep.Positions,
		Initial:    rep.Initial,
		Final:      rep.Final,
		Analytical: rep.Analytical,
		Snapshots:  rep.Snapshots,
		Metrics:    rep.Metrics,
	}
	if rep.Verified() {
		e := rep.MaxError
		data.MaxError = &e
	}
	return data
}

func ExportJSON(w io.Writer, rep *experiment.Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(rep))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteFieldCSV writes one row per grid point: x, initial, final and, for
// verified runs, the analytical value.
func WriteFieldCSV(w io.Writer, rep *experiment.Report) error {
	n := len(rep.Positions)
	if len(rep.Initial) != n || len(rep.Final) != n || (rep.Verified() && len(rep.Analytical) != n) {
		return fmt.Errorf("%w: %d positions, initial=%d final=%d analytical=%d",
			rod.ErrDimensionMismatch, n, len(rep.Initial), len(rep.Final), len(rep.Analytical))
	}
	cw := csv.NewWriter(w)

	header := []string{"x", "initial", "final"}
	if rep.Verified() {
		header = append(header, "analytical")
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, x := range rep.Positions {
		row := []string{formatFloat(x), formatFloat(rep.Initial[i]), formatFloat(rep.Final[i])}
		if rep.Verified() {
			row = append(row, formatFloat(rep.Analytical[i]))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteSnapshotsCSV writes one row per frame: time followed by T0..Tn-1.
func WriteSnapshotsCSV(w io.Writer, series snapshot.Series) error {
	cw := csv.NewWriter(w)
	if len(series) == 0 {
		cw.Flush()
		return cw.Error()
	}

	header := []string{"time"}
	for i := range series[0].Field {
		header = append(header, fmt.Sprintf("T%d", i))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, frame := range series {
		row := make([]string, 0, len(frame.Field)+1)
		row = append(row, formatFloat(frame.Time))
		for _, v := range frame.Field {
			row = append(row, formatFloat(v))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
