package forces

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/apexsim/mbforce/internal/spatial"
	"github.com/apexsim/mbforce/internal/state"
)

// Implementation is the extension point: calling code supplies a force
// law and the framework forwards both evaluation calls unchanged. An
// implementation may additionally satisfy the lifecycle interfaces
// ([TopologyRealizer] and friends) to reserve its own state slots.
type Implementation interface {
	CalcForce(s *state.State, bodyForces []spatial.ForceVector,
		particleForces []mgl64.Vec3, mobilityForces []float64)
	CalcPotentialEnergy(s *state.State) float64
}

// Custom adapts an externally supplied Implementation into the element
// set. The core never depends on concrete external force laws.
type Custom struct {
	index ForceIndex
	impl  Implementation
}

func NewCustom(sub *Subsystem, impl Implementation) *Custom {
	e := &Custom{impl: impl}
	e.index = sub.Adopt(e)
	return e
}

func (e *Custom) Index() ForceIndex              { return e.index }
func (e *Custom) Implementation() Implementation { return e.impl }

func (e *Custom) CalcForce(s *state.State, bodyForces []spatial.ForceVector,
	particleForces []mgl64.Vec3, mobilityForces []float64) {
	e.impl.CalcForce(s, bodyForces, particleForces, mobilityForces)
}

func (e *Custom) CalcPotentialEnergy(s *state.State) float64 {
	return e.impl.CalcPotentialEnergy(s)
}

func (e *Custom) RealizeTopology(s *state.State) {
	if r, ok := e.impl.(TopologyRealizer); ok {
		r.RealizeTopology(s)
	}
}

func (e *Custom) RealizeModel(s *state.State) {
	if r, ok := e.impl.(ModelRealizer); ok {
		r.RealizeModel(s)
	}
}

func (e *Custom) RealizeVelocity(s *state.State) {
	if r, ok := e.impl.(VelocityRealizer); ok {
		r.RealizeVelocity(s)
	}
}

func (e *Custom) RealizeDynamics(s *state.State) {
	if r, ok := e.impl.(DynamicsRealizer); ok {
		r.RealizeDynamics(s)
	}
}
