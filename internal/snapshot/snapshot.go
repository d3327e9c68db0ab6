// Package snapshot records a sampled time series of temperature fields for
// animation and replay.
package snapshot

import (
	"fmt"
	"iter"

	"github.com/san-kum/heatsim/internal/rod"
)

// Frame is one recorded field. Frames are never modified after recording.
type Frame struct {
	Time  float64   `json:"time"`
	Field rod.Field `json:"field"`
}

// Series is an ordered list of frames, frame 0 being the initial field.
type Series []Frame

// All iterates the frames in order. The sequence can be ranged over any number of times.
func (s Series) All() iter.Seq2[float64, rod.Field] {
	return func(yield func(float64, rod.Field) bool) {
		for _, fr := range s {
			if !yield(fr.Time, fr.Field) {
				return
			}
		}
	}
}

func (s Series) Times() []float64 {
	t := make([]float64, len(s))
	for i, fr := range s {
		t[i] = fr.Time
	}
	return t
}

func (s Series) Fields() []rod.Field {
	f := make([]rod.Field, len(s))
	for i, fr := range s {
		f[i] = fr.Field
	}
	return f
}

// Recorder implements solver.Observer, copying the field at step 0 and every
// Every-th step after it.
type Recorder struct {
	every  int
	frames Series
}

func NewRecorder(every int) (*Recorder, error) {
	if every < 1 {
		return nil, &rod.ConfigError{Field: "sample_every", Reason: fmt.Sprintf("must be at least 1, got %d", every)}
	}
	return &Recorder{every: every, frames: make(Series, 0, 16)}, nil
}

func (r *Recorder) Every() int { return r.every }

func (r *Recorder) OnStep(step int, t float64, f rod.Field) {
	if step != 0 && step%r.every != 0 {
		return
	}
	r.frames = append(r.frames, Frame{Time: t, Field: f.Clone()})
}

// Series returns the frames recorded so far.
func (r *Recorder) Series() Series {
	return r.frames[:len(r.frames):len(r.frames)]
}

func (r *Recorder) Len() int { return len(r.frames) }

// Reset discards every frame so the recorder can serve another run.
func (r *Recorder) Reset() {
	r.frames = make(Series, 0, 16)
}
