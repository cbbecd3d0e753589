package forces

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/apexsim/mbforce/internal/spatial"
	"github.com/apexsim/mbforce/internal/state"
)

// MobilityLinearSpring drives one generalized coordinate toward a
// target value with force -k*(q - x0).
type MobilityLinearSpring struct {
	index      ForceIndex
	coordinate int
	k, x0      float64
}

func NewMobilityLinearSpring(sub *Subsystem, coordinate int, k, x0 float64) (*MobilityLinearSpring, error) {
	if k < 0 {
		return nil, fmt.Errorf("%w: got %g", ErrNegativeStiffness, k)
	}
	e := &MobilityLinearSpring{coordinate: coordinate, k: k, x0: x0}
	e.index = sub.Adopt(e)
	return e, nil
}

func (e *MobilityLinearSpring) Index() ForceIndex { return e.index }

func (e *MobilityLinearSpring) CalcForce(s *state.State, bodyForces []spatial.ForceVector,
	particleForces []mgl64.Vec3, mobilityForces []float64) {
	q := s.Q()[e.coordinate]
	mobilityForces[e.coordinate] += -e.k * (q - e.x0)
}

func (e *MobilityLinearSpring) CalcPotentialEnergy(s *state.State) float64 {
	q := s.Q()[e.coordinate]
	return 0.5 * e.k * (q - e.x0) * (q - e.x0)
}

// MobilityLinearDamper resists one generalized speed with force -c*u.
type MobilityLinearDamper struct {
	index      ForceIndex
	coordinate int
	damping    float64
}

func NewMobilityLinearDamper(sub *Subsystem, coordinate int, damping float64) (*MobilityLinearDamper, error) {
	if damping < 0 {
		return nil, fmt.Errorf("%w: got %g", ErrNegativeDamping, damping)
	}
	e := &MobilityLinearDamper{coordinate: coordinate, damping: damping}
	e.index = sub.Adopt(e)
	return e, nil
}

func (e *MobilityLinearDamper) Index() ForceIndex { return e.index }

func (e *MobilityLinearDamper) CalcForce(s *state.State, bodyForces []spatial.ForceVector,
	particleForces []mgl64.Vec3, mobilityForces []float64) {
	u := s.U()[e.coordinate]
	mobilityForces[e.coordinate] += -e.damping * u
}

func (e *MobilityLinearDamper) CalcPotentialEnergy(s *state.State) float64 {
	return 0
}

// MobilityConstantForce applies a fixed generalized force to one
// mobility.
type MobilityConstantForce struct {
	index      ForceIndex
	coordinate int
	force      float64
}

func NewMobilityConstantForce(sub *Subsystem, coordinate int, force float64) *MobilityConstantForce {
	e := &MobilityConstantForce{coordinate: coordinate, force: force}
	e.index = sub.Adopt(e)
	return e
}

func (e *MobilityConstantForce) Index() ForceIndex { return e.index }

func (e *MobilityConstantForce) CalcForce(s *state.State, bodyForces []spatial.ForceVector,
	particleForces []mgl64.Vec3, mobilityForces []float64) {
	mobilityForces[e.coordinate] += e.force
}

func (e *MobilityConstantForce) CalcPotentialEnergy(s *state.State) float64 {
	return 0
}
