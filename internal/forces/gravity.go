package forces

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/apexsim/mbforce/internal/spatial"
	"github.com/apexsim/mbforce/internal/state"
)

// UniformGravity applies mass*g at every body's mass center and at
// every free particle. Body 0, the ground, is skipped.
type UniformGravity struct {
	index      ForceIndex
	matter     Matter
	g          mgl64.Vec3
	zeroHeight float64
}

func NewUniformGravity(sub *Subsystem, g mgl64.Vec3, zeroHeight float64) *UniformGravity {
	e := &UniformGravity{matter: sub.Matter(), g: g, zeroHeight: zeroHeight}
	e.index = sub.Adopt(e)
	return e
}

func (e *UniformGravity) Index() ForceIndex { return e.index }

func (e *UniformGravity) Gravity() mgl64.Vec3     { return e.g }
func (e *UniformGravity) SetGravity(g mgl64.Vec3) { e.g = g }
func (e *UniformGravity) ZeroHeight() float64     { return e.zeroHeight }
func (e *UniformGravity) SetZeroHeight(h float64) { e.zeroHeight = h }

func (e *UniformGravity) CalcForce(s *state.State, bodyForces []spatial.ForceVector,
	particleForces []mgl64.Vec3, mobilityForces []float64) {
	if n := e.matter.NumParticles(); n > 0 {
		masses := e.matter.ParticleMasses(s)
		for i := 0; i < n; i++ {
			particleForces[i] = particleForces[i].Add(e.g.Mul(masses[i]))
		}
	}

	// No gravity on the ground body.
	for body := 1; body < e.matter.NumBodies(); body++ {
		m := e.matter.BodyMass(s, body)
		comB := e.matter.BodyMassCenter(s, body)
		xGB := e.matter.BodyTransform(s, body)

		comBG := xGB.RotateVec(comB)
		frcG := e.g.Mul(m)
		bodyForces[body] = bodyForces[body].Add(spatial.AtStation(comBG, frcG))
	}
}

func (e *UniformGravity) CalcPotentialEnergy(s *state.State) float64 {
	pe := 0.0

	if n := e.matter.NumParticles(); n > 0 {
		masses := e.matter.ParticleMasses(s)
		locs := e.matter.ParticleLocations(s)
		for i := 0; i < n; i++ {
			// Signs look odd because height runs against g.
			pe -= masses[i] * (e.g.Dot(locs[i]) + e.zeroHeight)
		}
	}

	for body := 1; body < e.matter.NumBodies(); body++ {
		m := e.matter.BodyMass(s, body)
		comB := e.matter.BodyMassCenter(s, body)
		xGB := e.matter.BodyTransform(s, body)

		comG := xGB.TransformPoint(comB)
		pe -= m * (e.g.Dot(comG) + e.zeroHeight)
	}
	return pe
}
