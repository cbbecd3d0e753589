package sim

import (
	"github.com/apexsim/mbforce/internal/forces"
	"github.com/apexsim/mbforce/internal/mech"
	"github.com/apexsim/mbforce/internal/state"
)

// Model couples a point-mass chain, a force subsystem, and one staged
// state instance into an integrable first-order system over the packed
// vector [q | u | z]. A Model owns its State and is not safe for
// concurrent use; build one Model per trajectory.
type Model struct {
	chain *mech.Chain
	sub   *forces.Subsystem
	s     *state.State
	nu    int
}

// NewModel realizes the subsystem's topology and model stages against a
// fresh state, fixing the state layout.
func NewModel(chain *mech.Chain, sub *forces.Subsystem) *Model {
	s := chain.NewState()
	sub.RealizeTopology(s)
	sub.RealizeModel(s)
	return &Model{chain: chain, sub: sub, s: s, nu: chain.NU(s)}
}

func (m *Model) State() *state.State          { return m.s }
func (m *Model) Subsystem() *forces.Subsystem { return m.sub }
func (m *Model) Chain() *mech.Chain           { return m.chain }

func (m *Model) Dim() int { return 2*m.nu + m.s.NZ() }

// Pack snapshots the state into an integrator vector.
func (m *Model) Pack() Vector {
	x := make(Vector, m.Dim())
	copy(x, m.s.Q())
	copy(x[m.nu:], m.s.U())
	copy(x[2*m.nu:], m.s.Z())
	return x
}

// Apply installs an integrator vector into the state, invalidating the
// stages the writes touch.
func (m *Model) Apply(x Vector, t float64) {
	m.s.SetTime(t)
	m.s.SetQ(x[:m.nu])
	m.s.SetU(x[m.nu : 2*m.nu])
	copy(m.s.UpdZ(), x[2*m.nu:])
}

// Derive runs one stage-realization sweep and assembles the packed
// derivative: qdot = u, udot from the accumulated generalized forces,
// zdot from the elements' dynamics realization.
func (m *Model) Derive(x Vector, t float64) Vector {
	m.Apply(x, t)

	m.sub.RealizeVelocity(m.s)
	m.sub.RealizeDynamics(m.s)

	bodyF, particleF, mobilityF := m.sub.NewAccumulators(m.s)
	m.sub.CalcForces(m.s, bodyF, particleF, mobilityF)
	m.chain.ProjectBodyForces(bodyF, mobilityF)

	udot := m.chain.SolveM(mobilityF)

	dx := make(Vector, len(x))
	copy(dx, x[m.nu:2*m.nu]) // qdot = u
	copy(dx[m.nu:], udot)
	copy(dx[2*m.nu:], m.s.ZDot())
	return dx
}

// Energy is the mechanical energy: kinetic plus the elements' potential.
// Thermostat bath energy is excluded; query it separately.
func (m *Model) Energy(x Vector) float64 {
	m.Apply(x, 0)
	return m.chain.KineticEnergy(m.s) + m.sub.PotentialEnergy(m.s)
}
