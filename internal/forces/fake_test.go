package forces

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/apexsim/mbforce/internal/spatial"
	"github.com/apexsim/mbforce/internal/state"
)

// fakeMatter is a hand-posed matter system for element tests: fixed body
// poses and velocities, optional free particles, diagonal mobility mass.
type fakeMatter struct {
	transforms  []spatial.Transform
	velocities  []spatial.MotionVector
	masses      []float64
	massCenters []mgl64.Vec3

	particleMass []float64
	particleLoc  []mgl64.Vec3

	mobilityMass []float64
	nudotErr     int
}

func newFakeMatter(numBodies int) *fakeMatter {
	f := &fakeMatter{
		transforms:  make([]spatial.Transform, numBodies),
		velocities:  make([]spatial.MotionVector, numBodies),
		masses:      make([]float64, numBodies),
		massCenters: make([]mgl64.Vec3, numBodies),
	}
	for i := range f.transforms {
		f.transforms[i] = spatial.Identity()
	}
	return f
}

func (f *fakeMatter) NumBodies() int    { return len(f.transforms) }
func (f *fakeMatter) NumParticles() int { return len(f.particleMass) }

func (f *fakeMatter) BodyTransform(s *state.State, body int) spatial.Transform {
	return f.transforms[body]
}

func (f *fakeMatter) BodyVelocity(s *state.State, body int) spatial.MotionVector {
	return f.velocities[body]
}

func (f *fakeMatter) BodyMass(s *state.State, body int) float64 {
	return f.masses[body]
}

func (f *fakeMatter) BodyMassCenter(s *state.State, body int) mgl64.Vec3 {
	return f.massCenters[body]
}

func (f *fakeMatter) StationVelocity(s *state.State, body int, station mgl64.Vec3) mgl64.Vec3 {
	v := f.velocities[body]
	rG := f.transforms[body].RotateVec(station)
	return v.Linear.Add(v.Angular.Cross(rG))
}

func (f *fakeMatter) ParticleMasses(s *state.State) []float64       { return f.particleMass }
func (f *fakeMatter) ParticleLocations(s *state.State) []mgl64.Vec3 { return f.particleLoc }

func (f *fakeMatter) MulByM(s *state.State, v []float64) []float64 {
	out := make([]float64, len(v))
	for i := range v {
		out[i] = f.mobilityMass[i] * v[i]
	}
	return out
}

func (f *fakeMatter) NU(s *state.State) int       { return len(f.mobilityMass) }
func (f *fakeMatter) NUDotErr(s *state.State) int { return f.nudotErr }

// stateForMatter returns a fresh state sized for the fake's mobilities.
func stateForMatter(f *fakeMatter) *state.State {
	s := state.New()
	s.AllocQU(len(f.mobilityMass), len(f.mobilityMass))
	return s
}

// countingMatter wraps a Matter and counts kinematics queries, so tests
// can assert the at-most-once cache discipline.
type countingMatter struct {
	Matter
	transformCalls int
	velocityCalls  int
}

func (c *countingMatter) BodyTransform(s *state.State, body int) spatial.Transform {
	c.transformCalls++
	return c.Matter.BodyTransform(s, body)
}

func (c *countingMatter) BodyVelocity(s *state.State, body int) spatial.MotionVector {
	c.velocityCalls++
	return c.Matter.BodyVelocity(s, body)
}
