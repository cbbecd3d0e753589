package forces

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/apexsim/mbforce/internal/spatial"
	"github.com/apexsim/mbforce/internal/state"
)

// Matter is the kinematics engine the elements read from. Body 0 is the
// ground body; poses and velocities are expressed in the ground frame.
// Implementations own the mapping from a State's q/u vectors to body
// kinematics; the force elements never compute kinematics themselves.
type Matter interface {
	NumBodies() int
	NumParticles() int

	// BodyTransform is the pose X_GB of a body's frame in ground.
	BodyTransform(s *state.State, body int) spatial.Transform

	// BodyVelocity is the spatial velocity of a body's frame,
	// measured and expressed in ground.
	BodyVelocity(s *state.State, body int) spatial.MotionVector

	BodyMass(s *state.State, body int) float64

	// BodyMassCenter is the center of mass offset in the body frame.
	BodyMassCenter(s *state.State, body int) mgl64.Vec3

	// StationVelocity is the ground-frame velocity of a point fixed on
	// a body, given in the body frame.
	StationVelocity(s *state.State, body int, station mgl64.Vec3) mgl64.Vec3

	ParticleMasses(s *state.State) []float64
	ParticleLocations(s *state.State) []mgl64.Vec3

	// MulByM applies the system mass matrix to a mobility-space vector.
	MulByM(s *state.State, v []float64) []float64

	// NU is the number of generalized speeds; NUDotErr the number of
	// acceleration-level constraint equations.
	NU(s *state.State) int
	NUDotErr(s *state.State) int
}
