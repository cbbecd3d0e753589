package integrators

import "github.com/apexsim/mbforce/internal/sim"

type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(dyn sim.Dynamics, x sim.Vector, t float64, dt float64) sim.Vector {
	dx := dyn.Derive(x, t)
	result := make(sim.Vector, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result
}
