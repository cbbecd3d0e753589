package forces

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/apexsim/mbforce/internal/spatial"
	"github.com/apexsim/mbforce/internal/state"
)

// ForceIndex identifies an element within its owning Subsystem.
type ForceIndex int

// Element is the force-contribution contract. CalcForce adds into the
// caller-owned accumulators and must not mutate anything outside the
// element's own cache and state slots. CalcPotentialEnergy is
// independently callable; it lazily completes only the minimum work it
// needs even if CalcForce never ran.
type Element interface {
	CalcForce(s *state.State, bodyForces []spatial.ForceVector,
		particleForces []mgl64.Vec3, mobilityForces []float64)
	CalcPotentialEnergy(s *state.State) float64
}

// Lifecycle hooks, discovered by type assertion during the realize
// sweeps. Elements implement only the ones they need.
type (
	// TopologyRealizer reserves cache and discrete-variable slots.
	TopologyRealizer interface {
		RealizeTopology(s *state.State)
	}

	// ModelRealizer reserves variable-size continuous state once
	// model-stage parameters are fixed.
	ModelRealizer interface {
		RealizeModel(s *state.State)
	}

	// VelocityRealizer precomputes velocity-dependent quantities.
	VelocityRealizer interface {
		RealizeVelocity(s *state.State)
	}

	// DynamicsRealizer fills continuous-state derivatives.
	DynamicsRealizer interface {
		RealizeDynamics(s *state.State)
	}
)

// Subsystem owns the registered elements and binds them to a Matter.
// Elements are adopted once during setup and never removed; after setup
// the Subsystem is read-only and may serve any number of independent
// State instances.
type Subsystem struct {
	matter   Matter
	elements []Element
}

func NewSubsystem(matter Matter) *Subsystem {
	return &Subsystem{matter: matter}
}

func (sub *Subsystem) Matter() Matter   { return sub.matter }
func (sub *Subsystem) NumElements() int { return len(sub.elements) }

// Adopt registers an element and assigns its stable index. Element
// constructors call this exactly once.
func (sub *Subsystem) Adopt(e Element) ForceIndex {
	sub.elements = append(sub.elements, e)
	return ForceIndex(len(sub.elements) - 1)
}

func (sub *Subsystem) RealizeTopology(s *state.State) {
	for _, e := range sub.elements {
		if r, ok := e.(TopologyRealizer); ok {
			r.RealizeTopology(s)
		}
	}
}

func (sub *Subsystem) RealizeModel(s *state.State) {
	for _, e := range sub.elements {
		if r, ok := e.(ModelRealizer); ok {
			r.RealizeModel(s)
		}
	}
}

func (sub *Subsystem) RealizeVelocity(s *state.State) {
	for _, e := range sub.elements {
		if r, ok := e.(VelocityRealizer); ok {
			r.RealizeVelocity(s)
		}
	}
}

// RealizeDynamics zeroes the derivative block, then lets every element
// fill its own slots.
func (sub *Subsystem) RealizeDynamics(s *state.State) {
	zdot := s.ZDot()
	for i := range zdot {
		zdot[i] = 0
	}
	for _, e := range sub.elements {
		if r, ok := e.(DynamicsRealizer); ok {
			r.RealizeDynamics(s)
		}
	}
}

// NewAccumulators returns zeroed accumulators sized for the bound
// Matter and State.
func (sub *Subsystem) NewAccumulators(s *state.State) (bodyForces []spatial.ForceVector,
	particleForces []mgl64.Vec3, mobilityForces []float64) {
	return make([]spatial.ForceVector, sub.matter.NumBodies()),
		make([]mgl64.Vec3, sub.matter.NumParticles()),
		make([]float64, sub.matter.NU(s))
}

// CalcForces accumulates every element's contribution. Accumulation is
// add-only, so the totals do not depend on adoption order.
func (sub *Subsystem) CalcForces(s *state.State, bodyForces []spatial.ForceVector,
	particleForces []mgl64.Vec3, mobilityForces []float64) {
	for _, e := range sub.elements {
		e.CalcForce(s, bodyForces, particleForces, mobilityForces)
	}
}

// PotentialEnergy sums every element's potential energy.
func (sub *Subsystem) PotentialEnergy(s *state.State) float64 {
	pe := 0.0
	for _, e := range sub.elements {
		pe += e.CalcPotentialEnergy(s)
	}
	return pe
}
