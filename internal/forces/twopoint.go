package forces

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/apexsim/mbforce/internal/spatial"
	"github.com/apexsim/mbforce/internal/state"
)

// TwoPointLinearSpring pulls two body-fixed stations together with a
// force proportional to the stretch beyond the rest length.
type TwoPointLinearSpring struct {
	index              ForceIndex
	matter             Matter
	body1, body2       int
	station1, station2 mgl64.Vec3
	k, x0              float64
}

func NewTwoPointLinearSpring(sub *Subsystem, body1 int, station1 mgl64.Vec3,
	body2 int, station2 mgl64.Vec3, k, x0 float64) (*TwoPointLinearSpring, error) {
	if k < 0 {
		return nil, fmt.Errorf("%w: got %g", ErrNegativeStiffness, k)
	}
	e := &TwoPointLinearSpring{
		matter: sub.Matter(),
		body1:  body1, station1: station1,
		body2: body2, station2: station2,
		k: k, x0: x0,
	}
	e.index = sub.Adopt(e)
	return e, nil
}

func (e *TwoPointLinearSpring) Index() ForceIndex { return e.index }

func (e *TwoPointLinearSpring) stations(s *state.State) (s1G, s2G, rG mgl64.Vec3) {
	x1 := e.matter.BodyTransform(s, e.body1)
	x2 := e.matter.BodyTransform(s, e.body2)

	s1G = x1.RotateVec(e.station1)
	s2G = x2.RotateVec(e.station2)

	p1G := x1.P.Add(s1G)
	p2G := x2.P.Add(s2G)
	return s1G, s2G, p2G.Sub(p1G)
}

func (e *TwoPointLinearSpring) CalcForce(s *state.State, bodyForces []spatial.ForceVector,
	particleForces []mgl64.Vec3, mobilityForces []float64) {
	s1G, s2G, rG := e.stations(s)

	d := rG.Len()
	stretch := d - e.x0
	frcScalar := e.k * stretch

	f1G := rG.Mul(frcScalar / d)
	bodyForces[e.body1] = bodyForces[e.body1].Add(spatial.AtStation(s1G, f1G))
	bodyForces[e.body2] = bodyForces[e.body2].Sub(spatial.AtStation(s2G, f1G))
}

func (e *TwoPointLinearSpring) CalcPotentialEnergy(s *state.State) float64 {
	_, _, rG := e.stations(s)
	stretch := rG.Len() - e.x0
	return 0.5 * e.k * stretch * stretch
}

// TwoPointLinearDamper resists the rate of change of the distance
// between two body-fixed stations.
type TwoPointLinearDamper struct {
	index              ForceIndex
	matter             Matter
	body1, body2       int
	station1, station2 mgl64.Vec3
	damping            float64
}

func NewTwoPointLinearDamper(sub *Subsystem, body1 int, station1 mgl64.Vec3,
	body2 int, station2 mgl64.Vec3, damping float64) (*TwoPointLinearDamper, error) {
	if damping < 0 {
		return nil, fmt.Errorf("%w: got %g", ErrNegativeDamping, damping)
	}
	e := &TwoPointLinearDamper{
		matter: sub.Matter(),
		body1:  body1, station1: station1,
		body2: body2, station2: station2,
		damping: damping,
	}
	e.index = sub.Adopt(e)
	return e, nil
}

func (e *TwoPointLinearDamper) Index() ForceIndex { return e.index }

func (e *TwoPointLinearDamper) CalcForce(s *state.State, bodyForces []spatial.ForceVector,
	particleForces []mgl64.Vec3, mobilityForces []float64) {
	x1 := e.matter.BodyTransform(s, e.body1)
	x2 := e.matter.BodyTransform(s, e.body2)

	s1G := x1.RotateVec(e.station1)
	s2G := x2.RotateVec(e.station2)

	p1G := x1.P.Add(s1G)
	p2G := x2.P.Add(s2G)

	v1G := e.matter.StationVelocity(s, e.body1, e.station1)
	v2G := e.matter.StationVelocity(s, e.body2, e.station2)
	vRel := v2G.Sub(v1G)

	d := p2G.Sub(p1G).Normalize()
	frc := e.damping * vRel.Dot(d)

	f1G := d.Mul(frc)
	bodyForces[e.body1] = bodyForces[e.body1].Add(spatial.AtStation(s1G, f1G))
	bodyForces[e.body2] = bodyForces[e.body2].Sub(spatial.AtStation(s2G, f1G))
}

func (e *TwoPointLinearDamper) CalcPotentialEnergy(s *state.State) float64 {
	return 0
}

// TwoPointConstantForce applies a fixed-magnitude force along the
// instantaneous line between two body-fixed stations; positive
// magnitude pulls the bodies together.
type TwoPointConstantForce struct {
	index              ForceIndex
	matter             Matter
	body1, body2       int
	station1, station2 mgl64.Vec3
	force              float64
}

func NewTwoPointConstantForce(sub *Subsystem, body1 int, station1 mgl64.Vec3,
	body2 int, station2 mgl64.Vec3, force float64) *TwoPointConstantForce {
	e := &TwoPointConstantForce{
		matter: sub.Matter(),
		body1:  body1, station1: station1,
		body2: body2, station2: station2,
		force: force,
	}
	e.index = sub.Adopt(e)
	return e
}

func (e *TwoPointConstantForce) Index() ForceIndex { return e.index }

func (e *TwoPointConstantForce) CalcForce(s *state.State, bodyForces []spatial.ForceVector,
	particleForces []mgl64.Vec3, mobilityForces []float64) {
	x1 := e.matter.BodyTransform(s, e.body1)
	x2 := e.matter.BodyTransform(s, e.body2)

	s1G := x1.RotateVec(e.station1)
	s2G := x2.RotateVec(e.station2)

	p1G := x1.P.Add(s1G)
	p2G := x2.P.Add(s2G)

	d := p2G.Sub(p1G).Normalize()

	// Positive magnitude is attractive: body1 is pulled toward body2.
	f1G := d.Mul(e.force)
	bodyForces[e.body1] = bodyForces[e.body1].Add(spatial.AtStation(s1G, f1G))
	bodyForces[e.body2] = bodyForces[e.body2].Sub(spatial.AtStation(s2G, f1G))
}

func (e *TwoPointConstantForce) CalcPotentialEnergy(s *state.State) float64 {
	return 0
}
