package rod

import "fmt"

// MinPoints is the smallest grid that still has an interior point to solve for.
const MinPoints = 3

// Grid is a uniform discretization of [0, Length] into Points nodes.
type Grid struct {
	Length float64
	Points int
	Dx     float64
}

func NewGrid(length float64, points int) (Grid, error) {
	if points < MinPoints {
		return Grid{}, &ConfigError{Field: "nx", Reason: fmt.Sprintf("must be at least %d, got %d", MinPoints, points)}
	}
	if !(length > 0) {
		return Grid{}, &ConfigError{Field: "length", Reason: fmt.Sprintf("must be greater than 0, got %g", length)}
	}
	return Grid{Length: length, Points: points, Dx: length / float64(points-1)}, nil
}

// Position returns the physical location of index i.
func (g Grid) Position(i int) float64 {
	return float64(i) * g.Dx
}

func (g Grid) Positions() []float64 {
	x := make([]float64, g.Points)
	for i := range x {
		x[i] = g.Position(i)
	}
	return x
}

// InitialField evaluates ic at every interior point and pins both ends to bc.
func InitialField(g Grid, ic InitialCondition, bc Boundary) Field {
	f := make(Field, g.Points)
	for i := 1; i < g.Points-1; i++ {
		f[i] = ic(g.Position(i))
	}
	bc.Apply(f)
	return f
}
