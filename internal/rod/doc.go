// Package rod defines the physical and numerical description of a heated rod
// with fixed-temperature ends.
//
// The package holds the value types every solver consumes:
//
//   - [Grid]: uniform spatial discretization of the rod
//   - [Field]: temperature at each grid point
//   - [Boundary]: the two Dirichlet end temperatures
//   - [Params]: immutable run configuration (length, diffusivity, grid, time step)
//
// # Example
//
//	p := rod.Params{
//	    Length: 1, Alpha: 1e-4, TFinal: 150,
//	    Points: 51, Dt: 0.1,
//	    Boundary: rod.Boundary{Left: 100, Right: 0},
//	    Initial:  rod.Uniform(20),
//	}
//	if err := p.Validate(); err != nil {
//	    return err
//	}
//	field := rod.InitialField(p.Grid(), p.Initial, p.Boundary)
//
// Params values are never mutated by the solvers; each run owns its own
// fields.
package rod
