package sim

import (
	"fmt"
	"math"
)

// Vector is a flat numeric state for the integrator: the model's
// generalized coordinates, speeds, and auxiliary variables packed
// together.
type Vector []float64

func (v Vector) Clone() Vector {
	c := make(Vector, len(v))
	copy(c, v)
	return c
}

func (v Vector) IsValid() bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

func (v Vector) Norm() float64 {
	sum := 0.0
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Dynamics is a first-order ODE dx/dt = f(x, t).
type Dynamics interface {
	Derive(x Vector, t float64) Vector
	Dim() int
}

// EnergyComputer is optionally implemented by dynamics that can report
// a conserved total energy.
type EnergyComputer interface {
	Energy(x Vector) float64
}

type Integrator interface {
	Step(dyn Dynamics, x Vector, t float64, dt float64) Vector
}

type Metric interface {
	Name() string
	Observe(x Vector, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(x Vector, t float64)
}

type Config struct {
	Dt            float64
	Duration      float64
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.001,
		Duration:      10.0,
		ValidateState: true,
	}
}

type Result struct {
	States      []Vector
	Times       []float64
	Metrics     map[string]float64
	EnergyDrift float64
	StepsTaken  int
	Errors      []error
}

type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}
