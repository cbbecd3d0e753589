// Package metrics provides observation metrics for thermostatted runs.
package metrics

import (
	"github.com/apexsim/mbforce/internal/forces"
	"github.com/apexsim/mbforce/internal/sim"
)

// Temperature averages the instantaneous kinetic temperature reported
// by a thermostat over a run.
type Temperature struct {
	name    string
	model   *sim.Model
	thermo  *forces.Thermostat
	samples int
	total   float64
}

func NewTemperature(model *sim.Model, thermo *forces.Thermostat) *Temperature {
	return &Temperature{name: "temperature", model: model, thermo: thermo}
}

func (m *Temperature) Name() string { return m.name }

func (m *Temperature) Observe(x sim.Vector, t float64) {
	m.model.Apply(x, t)
	m.total += m.thermo.CurrentTemperature(m.model.State())
	m.samples++
}

func (m *Temperature) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.total / float64(m.samples)
}

func (m *Temperature) Reset() {
	m.total = 0
	m.samples = 0
}
