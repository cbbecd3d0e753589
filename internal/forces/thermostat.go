package forces

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/apexsim/mbforce/internal/spatial"
	"github.com/apexsim/mbforce/internal/state"
)

// DefaultNumChains is the chain length a Thermostat starts with unless
// overridden before topology realization.
const DefaultNumChains = 3

// Thermostat is a Nose-Hoover chain thermostat: a friction-like
// generalized force on every mobility, modulated by a chain of
// auxiliary variables advanced by the external integrator, so that the
// time-averaged kinetic energy fluctuates around the bath temperature.
//
// Per-state parameters live in discrete variables: the chain count at
// the Model stage (changing it reallocates and zeroes the 2m auxiliary
// slots), bath temperature and relaxation time at the Instance stage.
// The system momentum M*u and kinetic energy are cached at the Velocity
// stage.
type Thermostat struct {
	index  ForceIndex
	matter Matter

	// Boltzmann-type constant, fixed at construction. Its value
	// defines the temperature unit system.
	kb float64

	defNumChains int
	defBathTemp  float64
	defRelaxTime float64

	dvChains, dvBathTemp, dvRelaxTime state.DiscreteIndex
	zIx, momIx, keIx                  state.CacheIndex
}

// NewThermostat validates that the Boltzmann constant, bath temperature
// and relaxation time are all positive.
func NewThermostat(sub *Subsystem, boltzmannsConstant, bathTemperature, relaxationTime float64) (*Thermostat, error) {
	if boltzmannsConstant <= 0 {
		return nil, fmt.Errorf("%w: got %g", ErrNonPositiveBoltzmann, boltzmannsConstant)
	}
	if bathTemperature <= 0 {
		return nil, fmt.Errorf("%w: got %g", ErrNonPositiveTemperature, bathTemperature)
	}
	if relaxationTime <= 0 {
		return nil, fmt.Errorf("%w: got %g", ErrNonPositiveRelaxation, relaxationTime)
	}
	e := &Thermostat{
		matter:       sub.Matter(),
		kb:           boltzmannsConstant,
		defNumChains: DefaultNumChains,
		defBathTemp:  bathTemperature,
		defRelaxTime: relaxationTime,
	}
	e.index = sub.Adopt(e)
	return e, nil
}

func (e *Thermostat) Index() ForceIndex           { return e.index }
func (e *Thermostat) BoltzmannsConstant() float64 { return e.kb }

func (e *Thermostat) DefaultNumChains() int           { return e.defNumChains }
func (e *Thermostat) DefaultBathTemperature() float64 { return e.defBathTemp }
func (e *Thermostat) DefaultRelaxationTime() float64  { return e.defRelaxTime }

func (e *Thermostat) SetDefaultNumChains(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: got %d", ErrNonPositiveChains, n)
	}
	e.defNumChains = n
	return nil
}

func (e *Thermostat) SetDefaultBathTemperature(t float64) error {
	if t <= 0 {
		return fmt.Errorf("%w: got %g", ErrNonPositiveTemperature, t)
	}
	e.defBathTemp = t
	return nil
}

func (e *Thermostat) SetDefaultRelaxationTime(tau float64) error {
	if tau <= 0 {
		return fmt.Errorf("%w: got %g", ErrNonPositiveRelaxation, tau)
	}
	e.defRelaxTime = tau
	return nil
}

func (e *Thermostat) RealizeTopology(s *state.State) {
	e.dvChains = s.AllocDiscrete(state.Model, e.defNumChains)
	e.dvBathTemp = s.AllocDiscrete(state.Instance, e.defBathTemp)
	e.dvRelaxTime = s.AllocDiscrete(state.Instance, e.defRelaxTime)

	// Holds the offset of this thermostat's auxiliary block; filled in
	// at Model realization once the chain count is fixed.
	e.zIx = s.AllocCache(state.Model)

	e.momIx = s.AllocCache(state.Velocity)
	e.keIx = s.AllocCache(state.Velocity)
}

// RealizeModel sizes the auxiliary block to 2m slots, zeroed. A stale
// cache entry here means the chain count changed, which forces the
// reallocation the contract requires.
func (e *Thermostat) RealizeModel(s *state.State) {
	if s.CacheValid(e.zIx) {
		return
	}
	m := e.NumChains(s)
	s.SetCache(e.zIx, s.AllocZ(2*m))
}

// NumChains is the per-state chain count m.
func (e *Thermostat) NumChains(s *state.State) int {
	return s.Discrete(e.dvChains).(int)
}

func (e *Thermostat) BathTemperature(s *state.State) float64 {
	return s.Discrete(e.dvBathTemp).(float64)
}

func (e *Thermostat) RelaxationTime(s *state.State) float64 {
	return s.Discrete(e.dvRelaxTime).(float64)
}

// SetNumChains changes m for one state instance. The auxiliary block is
// reallocated and zeroed on the next Model realization.
func (e *Thermostat) SetNumChains(s *state.State, n int) error {
	if n < 1 {
		return fmt.Errorf("%w: got %d", ErrNonPositiveChains, n)
	}
	s.SetDiscrete(e.dvChains, n)
	return nil
}

func (e *Thermostat) SetBathTemperature(s *state.State, t float64) error {
	if t <= 0 {
		return fmt.Errorf("%w: got %g", ErrNonPositiveTemperature, t)
	}
	s.SetDiscrete(e.dvBathTemp, t)
	return nil
}

func (e *Thermostat) SetRelaxationTime(s *state.State, tau float64) error {
	if tau <= 0 {
		return fmt.Errorf("%w: got %g", ErrNonPositiveRelaxation, tau)
	}
	s.SetDiscrete(e.dvRelaxTime, tau)
	return nil
}

func (e *Thermostat) zOffset(s *state.State) int {
	if !s.CacheValid(e.zIx) {
		panic("forces: thermostat used before model realization")
	}
	return int(s.Cache(e.zIx).(state.ZIndex))
}

// InitializeChainState zeroes all chain and bookkeeping variables.
func (e *Thermostat) InitializeChainState(s *state.State) {
	z := s.UpdZ()
	off := e.zOffset(s)
	for i := 0; i < 2*e.NumChains(s); i++ {
		z[off+i] = 0
	}
}

// SetChainState installs an explicit chain state; its length must be
// exactly 2m.
func (e *Thermostat) SetChainState(s *state.State, chain []float64) error {
	m := e.NumChains(s)
	if len(chain) != 2*m {
		return fmt.Errorf("%w: got %d values for %d chains", ErrChainStateSize, len(chain), m)
	}
	z := s.UpdZ()
	off := e.zOffset(s)
	copy(z[off:off+2*m], chain)
	return nil
}

// ChainState returns a copy of the 2m auxiliary values.
func (e *Thermostat) ChainState(s *state.State) []float64 {
	m := e.NumChains(s)
	off := e.zOffset(s)
	out := make([]float64, 2*m)
	copy(out, s.Z()[off:off+2*m])
	return out
}

// NumDegreesOfFreedom floors at 1 and deliberately ignores constraint
// redundancy; acceleration-level constraints are what remove freedoms.
func (e *Thermostat) NumDegreesOfFreedom(s *state.State) int {
	n := e.matter.NU(s) - e.matter.NUDotErr(s)
	if n < 1 {
		n = 1
	}
	return n
}

// ensureMomentumValid computes and caches M*u and the kinetic energy.
func (e *Thermostat) ensureMomentumValid(s *state.State) ([]float64, float64) {
	if s.CacheValid(e.momIx) {
		return s.Cache(e.momIx).([]float64), s.Cache(e.keIx).(float64)
	}
	u := s.U()
	mu := e.matter.MulByM(s, u)
	ke := 0.0
	for i := range u {
		ke += u[i] * mu[i]
	}
	ke /= 2
	s.SetCache(e.momIx, mu)
	s.SetCache(e.keIx, ke)
	return mu, ke
}

func (e *Thermostat) RealizeVelocity(s *state.State) {
	e.ensureMomentumValid(s)
}

// KineticEnergy is the cached mechanical kinetic energy u*M*u/2.
func (e *Thermostat) KineticEnergy(s *state.State) float64 {
	_, ke := e.ensureMomentumValid(s)
	return ke
}

// CurrentTemperature is the instantaneous kinetic temperature
// 2*KE/(N*Kb).
func (e *Thermostat) CurrentTemperature(s *state.State) float64 {
	n := e.NumDegreesOfFreedom(s)
	return 2 * e.KineticEnergy(s) / (float64(n) * e.kb)
}

// RealizeDynamics fills the chain derivatives:
//
//	zdot0 = (E/Eb - 1)/tau^2
//	zdot[k-1] -= z[k-1]*z[k],  zdot[k] = Ndofs*z[k-1]^2 - 1/tau^2
//	sdot[k] = z[k]
//
// where E is kinetic energy per dof, Eb = Kb*T/2, and Ndofs is N for
// the first link and 1 after that.
func (e *Thermostat) RealizeDynamics(s *state.State) {
	tau := e.RelaxationTime(s)
	oot2 := 1 / (tau * tau)
	m := e.NumChains(s)

	eb := e.kb * e.BathTemperature(s) / 2
	n := e.NumDegreesOfFreedom(s)

	_, ke := e.ensureMomentumValid(s)
	energyPerDOF := ke / float64(n)

	z := s.Z()
	zdot := s.ZDot()
	off := e.zOffset(s)

	zdot[off] = (energyPerDOF/eb - 1) * oot2

	ndofs := float64(n) // only the first link sees all dofs
	for k := 1; k < m; k++ {
		zk1 := z[off+k-1]
		zk := z[off+k]
		zdot[off+k-1] -= zk1 * zk
		zdot[off+k] = ndofs*zk1*zk1 - oot2
		ndofs = 1
	}

	for k := 0; k < m; k++ {
		zdot[off+m+k] = z[off+k]
	}
}

// CalcForce applies the momentum-weighted friction -z0 * M*u to every
// mobility. No body or particle contribution.
func (e *Thermostat) CalcForce(s *state.State, bodyForces []spatial.ForceVector,
	particleForces []mgl64.Vec3, mobilityForces []float64) {
	mu, _ := e.ensureMomentumValid(s)
	z0 := s.Z()[e.zOffset(s)]
	for i := range mobilityForces {
		mobilityForces[i] -= z0 * mu[i]
	}
}

// CalcPotentialEnergy is zero: the thermostat's stored energy lives in
// the bath, reported by BathEnergy.
func (e *Thermostat) CalcPotentialEnergy(s *state.State) float64 {
	return 0
}

// BathEnergy reports the energy of the fictitious bath,
//
//	KEb = (Kb*T/2) * tau^2 * (N*z0^2 + sum z_i^2)
//	PEb = Kb*T * (N*s0 + sum s_i)
//
// used to verify conservation of the extended system.
func (e *Thermostat) BathEnergy(s *state.State) float64 {
	m := e.NumChains(s)
	n := float64(e.NumDegreesOfFreedom(s))
	kt := e.kb * e.BathTemperature(s)
	tau := e.RelaxationTime(s)

	z := s.Z()
	off := e.zOffset(s)

	zsqsum := n * z[off] * z[off]
	for i := 1; i < m; i++ {
		zsqsum += z[off+i] * z[off+i]
	}

	ssum := n * z[off+m]
	for i := 1; i < m; i++ {
		ssum += z[off+m+i]
	}

	keb := (kt / 2) * tau * tau * zsqsum
	peb := kt * ssum
	return keb + peb
}
