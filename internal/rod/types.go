package rod

import "math"

// Field is the temperature at each grid point, index 0 at the left end.
type Field []float64

func (f Field) Clone() Field {
	c := make(Field, len(f))
	copy(c, f)
	return c
}

// IsValid reports whether every value is finite.
func (f Field) IsValid() bool {
	for _, v := range f {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Interior returns the slice of unknowns between the two boundary points.
func (f Field) Interior() []float64 {
	if len(f) < 2 {
		return nil
	}
	return f[1 : len(f)-1]
}

// Rounded returns a copy with every value rounded to the given number of decimals.
func (f Field) Rounded(places int) Field {
	scale := math.Pow(10, float64(places))
	r := make(Field, len(f))
	for i, v := range f {
		r[i] = math.Round(v*scale) / scale
	}
	return r
}

// Boundary holds the fixed end temperatures.
type Boundary struct {
	Left  float64 `param:"t_left"`
	Right float64 `param:"t_right"`
}

// Apply overwrites both end points of f.
func (b Boundary) Apply(f Field) {
	if len(f) == 0 {
		return
	}
	f[0] = b.Left
	f[len(f)-1] = b.Right
}

// Holds reports whether both end points of f carry the boundary values.
func (b Boundary) Holds(f Field) bool {
	return len(f) > 0 && f[0] == b.Left && f[len(f)-1] == b.Right
}

// InitialCondition gives the temperature at position x for t=0.
type InitialCondition func(x float64) float64

// Scaled maps ic, defined on a rod of length from, onto a rod of length to so
// the profile keeps its shape relative to the ends.
func (ic InitialCondition) Scaled(from, to float64) InitialCondition {
	if ic == nil || from == to || !(from > 0) || !(to > 0) {
		return ic
	}
	k := from / to
	return func(x float64) float64 { return ic(x * k) }
}

// Uniform is an initial condition holding the whole rod at one temperature.
func Uniform(v float64) InitialCondition {
	return func(float64) float64 { return v }
}
