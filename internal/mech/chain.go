// Package mech provides a minimal matter system for exercising the
// force elements: a chain of point masses, each with one translational
// mobility along the ground X axis. It stands in for a full multibody
// kinematics engine in the harness, CLI, and tests.
package mech

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/mat"

	"github.com/apexsim/mbforce/internal/spatial"
	"github.com/apexsim/mbforce/internal/state"
)

// ErrNonPositiveMass indicates a point mass <= 0.
var ErrNonPositiveMass = errors.New("mech: mass must be positive")

// Chain is n point masses; body i+1 carries mobility i (body 0 is the
// ground). The mass matrix is diagonal.
type Chain struct {
	masses []float64
	m      *mat.DiagDense
}

func NewChain(masses []float64) (*Chain, error) {
	for i, m := range masses {
		if m <= 0 {
			return nil, fmt.Errorf("%w: mass %d is %g", ErrNonPositiveMass, i, m)
		}
	}
	d := make([]float64, len(masses))
	copy(d, masses)
	return &Chain{masses: d, m: mat.NewDiagDense(len(d), d)}, nil
}

// NewState returns a state sized for this chain's mobilities.
func (c *Chain) NewState() *state.State {
	s := state.New()
	s.AllocQU(len(c.masses), len(c.masses))
	return s
}

func (c *Chain) NumBodies() int    { return len(c.masses) + 1 }
func (c *Chain) NumParticles() int { return 0 }

func (c *Chain) BodyTransform(s *state.State, body int) spatial.Transform {
	x := spatial.Identity()
	if body > 0 {
		x.P = mgl64.Vec3{s.Q()[body-1], 0, 0}
	}
	return x
}

func (c *Chain) BodyVelocity(s *state.State, body int) spatial.MotionVector {
	v := spatial.MotionVector{}
	if body > 0 {
		v.Linear = mgl64.Vec3{s.U()[body-1], 0, 0}
	}
	return v
}

func (c *Chain) BodyMass(s *state.State, body int) float64 {
	if body == 0 {
		return 0
	}
	return c.masses[body-1]
}

func (c *Chain) BodyMassCenter(s *state.State, body int) mgl64.Vec3 {
	return mgl64.Vec3{}
}

func (c *Chain) StationVelocity(s *state.State, body int, station mgl64.Vec3) mgl64.Vec3 {
	// Bodies never rotate, so every station moves with the body origin.
	return c.BodyVelocity(s, body).Linear
}

func (c *Chain) ParticleMasses(s *state.State) []float64       { return nil }
func (c *Chain) ParticleLocations(s *state.State) []mgl64.Vec3 { return nil }

func (c *Chain) MulByM(s *state.State, v []float64) []float64 {
	out := mat.NewVecDense(len(v), nil)
	out.MulVec(c.m, mat.NewVecDense(len(v), v))
	res := make([]float64, len(v))
	copy(res, out.RawVector().Data)
	return res
}

func (c *Chain) NU(s *state.State) int       { return len(c.masses) }
func (c *Chain) NUDotErr(s *state.State) int { return 0 }

// SolveM applies the inverse mass matrix: accelerations from
// generalized forces.
func (c *Chain) SolveM(f []float64) []float64 {
	out := make([]float64, len(f))
	for i := range f {
		out[i] = f[i] / c.masses[i]
	}
	return out
}

// ProjectBodyForces folds spatial body forces into mobility space. For
// a translational mobility along ground X that is just the X component
// of the linear force.
func (c *Chain) ProjectBodyForces(bodyForces []spatial.ForceVector, mobilityForces []float64) {
	for body := 1; body < len(bodyForces); body++ {
		mobilityForces[body-1] += bodyForces[body].Force[0]
	}
}

// KineticEnergy is u*M*u/2.
func (c *Chain) KineticEnergy(s *state.State) float64 {
	u := s.U()
	ke := 0.0
	for i := range u {
		ke += c.masses[i] * u[i] * u[i]
	}
	return ke / 2
}
