package forces

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/apexsim/mbforce/internal/spatial"
	"github.com/apexsim/mbforce/internal/state"
)

// LinearBushing is a six-axis spring-damper between a frame F fixed on
// body A and a frame M fixed on body B. Its generalized coordinates are
// the body-fixed X-Y-Z Euler angles of the relative rotation R_FM
// followed by the components of the relative translation p_FM, with
// independent stiffness and damping per axis, fully decoupled in that
// basis.
//
// Derived quantities are held in staged caches: positions from the
// Position stage, rates from Velocity, forces from Dynamics. Each is
// computed at most once per state snapshot regardless of how many
// accessors read it.
type LinearBushing struct {
	index        ForceIndex
	matter       Matter
	bodyA, bodyB int
	xAF, xBM     spatial.Transform
	k, c         [6]float64

	posIx, velIx, frcIx, peIx state.CacheIndex
}

type bushingPosCache struct {
	xGF, xGM, xFM spatial.Transform

	// Frame offsets re-expressed in ground.
	pAFG, pBMG, pFMG mgl64.Vec3

	q [6]float64
}

type bushingVelCache struct {
	vGF, vGM, vFM spatial.MotionVector
	qdot          [6]float64
}

type bushingForceCache struct {
	f        [6]float64 // generalized force on body B
	fGM, fGF spatial.ForceVector
	fGA, fGB spatial.ForceVector
}

// NewLinearBushing connects frame F, placed on bodyA by the constant
// transform frameOnA, to frame M placed on bodyB by frameOnB. Stiffness
// and damping are per-axis in the bushing's coordinate basis; both must
// be nonnegative.
func NewLinearBushing(sub *Subsystem, bodyA int, frameOnA spatial.Transform,
	bodyB int, frameOnB spatial.Transform, stiffness, damping [6]float64) (*LinearBushing, error) {
	for i := 0; i < 6; i++ {
		if stiffness[i] < 0 {
			return nil, fmt.Errorf("%w: axis %d got %g", ErrNegativeStiffness, i, stiffness[i])
		}
		if damping[i] < 0 {
			return nil, fmt.Errorf("%w: axis %d got %g", ErrNegativeDamping, i, damping[i])
		}
	}
	e := &LinearBushing{
		matter: sub.Matter(),
		bodyA:  bodyA, xAF: frameOnA,
		bodyB: bodyB, xBM: frameOnB,
		k: stiffness, c: damping,
	}
	e.index = sub.Adopt(e)
	return e, nil
}

// NewBodyFrameBushing connects the two body frames directly.
func NewBodyFrameBushing(sub *Subsystem, bodyA, bodyB int, stiffness, damping [6]float64) (*LinearBushing, error) {
	return NewLinearBushing(sub, bodyA, spatial.Identity(), bodyB, spatial.Identity(), stiffness, damping)
}

func (e *LinearBushing) Index() ForceIndex { return e.index }

func (e *LinearBushing) RealizeTopology(s *state.State) {
	e.posIx = s.AllocCache(state.Position)
	e.velIx = s.AllocCache(state.Velocity)
	e.frcIx = s.AllocCache(state.Dynamics)
	e.peIx = s.AllocCache(state.Position)
}

func (e *LinearBushing) ensurePositionCacheValid(s *state.State) *bushingPosCache {
	if s.CacheValid(e.posIx) {
		return s.Cache(e.posIx).(*bushingPosCache)
	}

	pc := &bushingPosCache{}

	xGA := e.matter.BodyTransform(s, e.bodyA)
	xGB := e.matter.BodyTransform(s, e.bodyB)
	pc.xGF = xGA.Compose(e.xAF)
	pc.xGM = xGB.Compose(e.xBM)
	pc.xFM = pc.xGF.Inverse().Compose(pc.xGM)

	pc.pAFG = xGA.RotateVec(e.xAF.P)
	pc.pBMG = xGB.RotateVec(e.xBM.P)
	pc.pFMG = pc.xGF.RotateVec(pc.xFM.P)

	// Rotational coordinates are the body-fixed XYZ Euler angles of
	// R_FM; translational coordinates are p_FM directly.
	angles := spatial.ToBodyFixedXYZ(pc.xFM.R)
	pc.q[0], pc.q[1], pc.q[2] = angles[0], angles[1], angles[2]
	pc.q[3], pc.q[4], pc.q[5] = pc.xFM.P[0], pc.xFM.P[1], pc.xFM.P[2]

	s.SetCache(e.posIx, pc)
	return pc
}

func (e *LinearBushing) ensureVelocityCacheValid(s *state.State) *bushingVelCache {
	if s.CacheValid(e.velIx) {
		return s.Cache(e.velIx).(*bushingVelCache)
	}

	pc := e.ensurePositionCacheValid(s)
	rGF := pc.xGF.R
	rFM := pc.xFM.R
	q := mgl64.Vec3{pc.q[0], pc.q[1], pc.q[2]}

	vc := &bushingVelCache{}

	vGA := e.matter.BodyVelocity(s, e.bodyA)
	vGB := e.matter.BodyVelocity(s, e.bodyB)

	// Propagate each body's spatial velocity out to its frame.
	vc.vGF = spatial.MotionVector{
		Angular: vGA.Angular,
		Linear:  vGA.Linear.Add(vGA.Angular.Cross(pc.pAFG)),
	}
	vc.vGM = spatial.MotionVector{
		Angular: vGB.Angular,
		Linear:  vGB.Linear.Add(vGB.Angular.Cross(pc.pBMG)),
	}

	// Velocity of M in F with the derivative still taken in ground.
	vFMG := vc.vGM.Sub(vc.vGF)

	// Remove the contribution of F's own rotation, then re-express
	// in F.
	rGFT := rGF.Transpose()
	vc.vFM = spatial.MotionVector{
		Angular: rGFT.Mul3x1(vFMG.Angular),
		Linear:  rGFT.Mul3x1(vFMG.Linear.Sub(vc.vGF.Angular.Cross(pc.pFMG))),
	}

	// Angular velocity must be expressed in M for the qdot conversion.
	wFMM := rFM.Transpose().Mul3x1(vc.vFM.Angular)
	nFM := spatial.NBodyXYZ(q)
	qdRot := nFM.Mul3x1(wFMM)
	vc.qdot[0], vc.qdot[1], vc.qdot[2] = qdRot[0], qdRot[1], qdRot[2]
	vc.qdot[3], vc.qdot[4], vc.qdot[5] = vc.vFM.Linear[0], vc.vFM.Linear[1], vc.vFM.Linear[2]

	s.SetCache(e.velIx, vc)
	return vc
}

// ensureForceCacheValid also fills the potential energy cache, since
// the stiffness pass computes it anyway.
func (e *LinearBushing) ensureForceCacheValid(s *state.State) *bushingForceCache {
	if s.CacheValid(e.frcIx) {
		return s.Cache(e.frcIx).(*bushingForceCache)
	}

	pc := e.ensurePositionCacheValid(s)

	var fk [6]float64
	pe2 := 0.0
	for i := 0; i < 6; i++ {
		fk[i] = e.k[i] * pc.q[i]
		pe2 += fk[i] * pc.q[i]
	}
	s.SetCache(e.peIx, pe2/2)

	vc := e.ensureVelocityCacheValid(s)

	fc := &bushingForceCache{}
	for i := 0; i < 6; i++ {
		fc.f[i] = -(fk[i] + e.c[i]*vc.qdot[i])
	}

	fBq := mgl64.Vec3{fc.f[0], fc.f[1], fc.f[2]} // in the q basis
	fMF := mgl64.Vec3{fc.f[3], fc.f[4], fc.f[5]} // acts at M, expressed in F

	// N maps angular velocity to coordinate rates, so its transpose
	// maps generalized forces back to a real moment (work conjugacy).
	// The moment comes out expressed in M.
	q := mgl64.Vec3{pc.q[0], pc.q[1], pc.q[2]}
	nFM := spatial.NBodyXYZ(q)
	mBM := nFM.Transpose().Mul3x1(fBq)
	mBG := pc.xGM.R.Mul3x1(mBM)

	// The translational force acts along the line OF-OM, so applying
	// the negated force at OF instead of OM needs no moment shift.
	fMG := pc.xGF.R.Mul3x1(fMF)

	fc.fGM = spatial.ForceVector{Moment: mBG, Force: fMG}
	fc.fGF = fc.fGM.Neg()

	// Shift to each body's origin.
	fc.fGB = fc.fGM.ShiftBy(pc.pBMG)
	fc.fGA = fc.fGF.ShiftBy(pc.pAFG)

	s.SetCache(e.frcIx, fc)
	return fc
}

// ensurePotentialEnergyValid covers the case where energy is requested
// without the force ever having been computed.
func (e *LinearBushing) ensurePotentialEnergyValid(s *state.State) float64 {
	if s.CacheValid(e.peIx) {
		return s.Cache(e.peIx).(float64)
	}

	pc := e.ensurePositionCacheValid(s)
	pe2 := 0.0
	for i := 0; i < 6; i++ {
		pe2 += e.k[i] * pc.q[i] * pc.q[i]
	}

	pe := pe2 / 2
	s.SetCache(e.peIx, pe)
	return pe
}

func (e *LinearBushing) CalcForce(s *state.State, bodyForces []spatial.ForceVector,
	particleForces []mgl64.Vec3, mobilityForces []float64) {
	fc := e.ensureForceCacheValid(s)
	bodyForces[e.bodyB] = bodyForces[e.bodyB].Add(fc.fGB)
	bodyForces[e.bodyA] = bodyForces[e.bodyA].Add(fc.fGA)
}

func (e *LinearBushing) CalcPotentialEnergy(s *state.State) float64 {
	return e.ensurePotentialEnergyValid(s)
}

// Observer accessors; each validates only the caches it needs.

// Q is the six-vector of bushing coordinates: three Euler angles, three
// translations.
func (e *LinearBushing) Q(s *state.State) [6]float64 {
	return e.ensurePositionCacheValid(s).q
}

// QDot is the six-vector of coordinate rates.
func (e *LinearBushing) QDot(s *state.State) [6]float64 {
	return e.ensureVelocityCacheValid(s).qdot
}

// XFM is the relative pose of frame M in frame F.
func (e *LinearBushing) XFM(s *state.State) spatial.Transform {
	return e.ensurePositionCacheValid(s).xFM
}

// VFM is the relative spatial velocity of M in F, expressed in F.
func (e *LinearBushing) VFM(s *state.State) spatial.MotionVector {
	return e.ensureVelocityCacheValid(s).vFM
}

// F is the generalized force applied to body B in the bushing basis.
func (e *LinearBushing) F(s *state.State) [6]float64 {
	return e.ensureForceCacheValid(s).f
}

// FGM is the spatial force applied to body B at M's origin, in ground.
func (e *LinearBushing) FGM(s *state.State) spatial.ForceVector {
	return e.ensureForceCacheValid(s).fGM
}

// FGF is the equal-and-opposite spatial force applied to body A at F's
// origin.
func (e *LinearBushing) FGF(s *state.State) spatial.ForceVector {
	return e.ensureForceCacheValid(s).fGF
}
