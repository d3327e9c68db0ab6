package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/san-kum/heatsim/internal/rod"
	"github.com/san-kum/heatsim/internal/snapshot"
)

// Float is a float64 that survives a JSON round trip after a run diverged.
// encoding/json rejects NaN and the infinities, so they are written as the
// strings "NaN", "+Inf" and "-Inf". null reads back as NaN.
type Float float64

func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return json.Marshal(formatFloat(v))
	}
	return json.Marshal(v)
}

func (f *Float) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*f = Float(math.NaN())
		return nil
	}
	s := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("storage: bad number %s: %w", data, err)
	}
	*f = Float(v)
	return nil
}

func toFloats(v []float64) []Float {
	if v == nil {
		return nil
	}
	out := make([]Float, len(v))
	for i, x := range v {
		out[i] = Float(x)
	}
	return out
}

func fromFloats(v []Float) []float64 {
	if v == nil {
		return nil
	}
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}

func toMetrics(m map[string]float64) map[string]Float {
	if m == nil {
		return nil
	}
	out := make(map[string]Float, len(m))
	for k, v := range m {
		out[k] = Float(v)
	}
	return out
}

func fromMetrics(m map[string]Float) map[string]float64 {
	if m == nil {
		return nil
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = float64(v)
	}
	return out
}

type frameJSON struct {
	Time  float64 `json:"time"`
	Field []Float `json:"field"`
}

func toFrames(s snapshot.Series) []frameJSON {
	if len(s) == 0 {
		return nil
	}
	out := make([]frameJSON, len(s))
	for i, fr := range s {
		out[i] = frameJSON{Time: fr.Time, Field: toFloats(fr.Field)}
	}
	return out
}

func fromFrames(fs []frameJSON) snapshot.Series {
	if len(fs) == 0 {
		return nil
	}
	out := make(snapshot.Series, len(fs))
	for i, fr := range fs {
		out[i] = snapshot.Frame{Time: fr.Time, Field: rod.Field(fromFloats(fr.Field))}
	}
	return out
}

// The plain types drop the methods below so the wire structs can embed them
// without recursing; their shadowing fields carry the non-finite values.
type (
	plainMetadata RunMetadata
	plainExport   ExportData
)

type metadataJSON struct {
	plainMetadata
	MaxError Float            `json:"max_error,omitempty"`
	Metrics  map[string]Float `json:"metrics"`
}

func (m RunMetadata) MarshalJSON() ([]byte, error) {
	return json.Marshal(metadataJSON{
		plainMetadata: plainMetadata(m),
		MaxError:      Float(m.MaxError),
		Metrics:       toMetrics(m.Metrics),
	})
}

func (m *RunMetadata) UnmarshalJSON(data []byte) error {
	var w metadataJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*m = RunMetadata(w.plainMetadata)
	m.MaxError = float64(w.MaxError)
	m.Metrics = fromMetrics(w.Metrics)
	return nil
}

type exportJSON struct {
	plainExport
	Initial    []Float          `json:"initial"`
	Final      []Float          `json:"final"`
	Analytical []Float          `json:"analytical,omitempty"`
	MaxError   *Float           `json:"max_error,omitempty"`
	Snapshots  []frameJSON      `json:"snapshots,omitempty"`
	Metrics    map[string]Float `json:"metrics"`
}

func (d ExportData) MarshalJSON() ([]byte, error) {
	w := exportJSON{
		plainExport: plainExport(d),
		Initial:     toFloats(d.Initial),
		Final:       toFloats(d.Final),
		Analytical:  toFloats(d.Analytical),
		Snapshots:   toFrames(d.Snapshots),
		Metrics:     toMetrics(d.Metrics),
	}
	if d.MaxError != nil {
		e := Float(*d.MaxError)
		w.MaxError = &e
	}
	return json.Marshal(w)
}

func (d *ExportData) UnmarshalJSON(data []byte) error {
	var w exportJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*d = ExportData(w.plainExport)
	d.Initial = fromFloats(w.Initial)
	d.Final = fromFloats(w.Final)
	d.Analytical = fromFloats(w.Analytical)
	d.Snapshots = fromFrames(w.Snapshots)
	d.Metrics = fromMetrics(w.Metrics)
	d.MaxError = nil
	if w.MaxError != nil {
		e := float64(*w.MaxError)
		d.MaxError = &e
	}
	return nil
}
