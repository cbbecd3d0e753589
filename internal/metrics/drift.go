package metrics

import (
	"math"

	"github.com/apexsim/mbforce/internal/forces"
	"github.com/apexsim/mbforce/internal/sim"
)

// ExtendedDrift tracks the worst relative drift of the extended energy:
// mechanical energy plus the thermostat's bath energy. For an exact
// integration this sum is conserved, so the drift measures integrator
// error.
type ExtendedDrift struct {
	name     string
	model    *sim.Model
	thermo   *forces.Thermostat
	initial  float64
	current  float64
	maxDrift float64
	samples  int
}

func NewExtendedDrift(model *sim.Model, thermo *forces.Thermostat) *ExtendedDrift {
	return &ExtendedDrift{name: "extended_drift", model: model, thermo: thermo}
}

func (m *ExtendedDrift) Name() string { return m.name }

func (m *ExtendedDrift) Observe(x sim.Vector, t float64) {
	energy := m.model.Energy(x)
	if m.thermo != nil {
		energy += m.thermo.BathEnergy(m.model.State())
	}

	if m.samples == 0 {
		m.initial = energy
	}

	m.current = energy
	m.samples++

	if m.initial != 0 {
		drift := math.Abs(energy-m.initial) / math.Abs(m.initial)
		m.maxDrift = math.Max(m.maxDrift, drift)
	}
}

func (m *ExtendedDrift) Value() float64 {
	return m.maxDrift
}

func (m *ExtendedDrift) Reset() {
	m.initial = 0
	m.current = 0
	m.maxDrift = 0
	m.samples = 0
}
