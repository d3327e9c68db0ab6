// Package solver advances a rod temperature field through time.
//
// Two finite-difference schemes implement [Stepper]:
//
//   - [Explicit]: forward-time centered-space (FTCS), stable for Fo <= 0.5
//   - [Implicit]: backward Euler, one tridiagonal solve per step, unconditionally stable
//
// [Simulator] runs a stepper for floor(t_final/dt) steps, swapping two field
// buffers after every step and notifying metrics and observers.
//
// # Example
//
//	step := solver.NewExplicit(p.Fourier(), p.Boundary)
//	sim := solver.New(step)
//	result, err := sim.Run(x0, solver.Config{Dt: p.Dt, Duration: p.TFinal})
//
// # Thread Safety
//
// Steppers and simulators hold scratch buffers and are NOT safe for
// concurrent use. Build one per run.
package solver
