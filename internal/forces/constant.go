package forces

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/apexsim/mbforce/internal/spatial"
	"github.com/apexsim/mbforce/internal/state"
)

// ConstantForce applies a fixed ground-frame force at a body-fixed
// station.
type ConstantForce struct {
	index   ForceIndex
	matter  Matter
	body    int
	station mgl64.Vec3
	force   mgl64.Vec3
}

func NewConstantForce(sub *Subsystem, body int, station, force mgl64.Vec3) *ConstantForce {
	e := &ConstantForce{matter: sub.Matter(), body: body, station: station, force: force}
	e.index = sub.Adopt(e)
	return e
}

func (e *ConstantForce) Index() ForceIndex { return e.index }

func (e *ConstantForce) CalcForce(s *state.State, bodyForces []spatial.ForceVector,
	particleForces []mgl64.Vec3, mobilityForces []float64) {
	xGB := e.matter.BodyTransform(s, e.body)
	stationG := xGB.RotateVec(e.station)
	bodyForces[e.body] = bodyForces[e.body].Add(spatial.AtStation(stationG, e.force))
}

func (e *ConstantForce) CalcPotentialEnergy(s *state.State) float64 {
	return 0
}

// ConstantTorque applies a fixed ground-frame moment to a body.
type ConstantTorque struct {
	index  ForceIndex
	body   int
	torque mgl64.Vec3
}

func NewConstantTorque(sub *Subsystem, body int, torque mgl64.Vec3) *ConstantTorque {
	e := &ConstantTorque{body: body, torque: torque}
	e.index = sub.Adopt(e)
	return e
}

func (e *ConstantTorque) Index() ForceIndex { return e.index }

func (e *ConstantTorque) CalcForce(s *state.State, bodyForces []spatial.ForceVector,
	particleForces []mgl64.Vec3, mobilityForces []float64) {
	bodyForces[e.body].Moment = bodyForces[e.body].Moment.Add(e.torque)
}

func (e *ConstantTorque) CalcPotentialEnergy(s *state.State) float64 {
	return 0
}

// GlobalDamper applies -c*u across the whole generalized-speed vector.
type GlobalDamper struct {
	index   ForceIndex
	damping float64
}

func NewGlobalDamper(sub *Subsystem, damping float64) (*GlobalDamper, error) {
	if damping < 0 {
		return nil, fmt.Errorf("%w: got %g", ErrNegativeDamping, damping)
	}
	e := &GlobalDamper{damping: damping}
	e.index = sub.Adopt(e)
	return e, nil
}

func (e *GlobalDamper) Index() ForceIndex { return e.index }

func (e *GlobalDamper) CalcForce(s *state.State, bodyForces []spatial.ForceVector,
	particleForces []mgl64.Vec3, mobilityForces []float64) {
	u := s.U()
	for i := range mobilityForces {
		mobilityForces[i] -= e.damping * u[i]
	}
}

func (e *GlobalDamper) CalcPotentialEnergy(s *state.State) float64 {
	return 0
}
