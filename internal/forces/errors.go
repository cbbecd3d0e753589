package forces

import "errors"

// Validation errors. Illegal parameters are rejected at construction or
// setter time, never clamped.
var (
	// ErrNegativeStiffness indicates a spring constant below zero.
	ErrNegativeStiffness = errors.New("forces: stiffness must be nonnegative")

	// ErrNegativeDamping indicates a damping coefficient below zero.
	ErrNegativeDamping = errors.New("forces: damping must be nonnegative")

	// ErrNonPositiveTemperature indicates a bath temperature <= 0.
	ErrNonPositiveTemperature = errors.New("forces: bath temperature must be positive")

	// ErrNonPositiveRelaxation indicates a relaxation time <= 0.
	ErrNonPositiveRelaxation = errors.New("forces: relaxation time must be positive")

	// ErrNonPositiveChains indicates a thermostat chain count < 1.
	ErrNonPositiveChains = errors.New("forces: chain count must be positive")

	// ErrNonPositiveBoltzmann indicates a Boltzmann constant <= 0.
	ErrNonPositiveBoltzmann = errors.New("forces: boltzmann constant must be positive")

	// ErrChainStateSize indicates an explicit chain state whose length
	// disagrees with 2 x chain count.
	ErrChainStateSize = errors.New("forces: chain state length mismatch")
)
