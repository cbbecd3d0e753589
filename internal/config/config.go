// Package config holds the YAML configuration for the mbforce CLI.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt         = 0.001
	DefaultDuration   = 10.0
	DefaultMass       = 1.0
	DefaultStiffness  = 10.0
	DefaultBathTemp   = 1.0
	DefaultRelaxation = 1.0
	DefaultBoltzmann  = 1.0
	DefaultChains     = 3
)

type Config struct {
	Dt         float64          `yaml:"dt"`
	Duration   float64          `yaml:"duration"`
	Integrator string           `yaml:"integrator"`
	Chain      ChainConfig      `yaml:"chain"`
	Thermostat ThermostatConfig `yaml:"thermostat"`
	InitState  InitStateConfig  `yaml:"init_state"`
}

// ChainConfig describes the demo point-mass chain: n masses, each tied
// to ground by a mobility spring.
type ChainConfig struct {
	NumMasses int     `yaml:"num_masses"`
	Mass      float64 `yaml:"mass"`
	Stiffness float64 `yaml:"stiffness"`
	Damping   float64 `yaml:"damping"`
}

type ThermostatConfig struct {
	Enabled        bool    `yaml:"enabled"`
	Temperature    float64 `yaml:"temperature"`
	RelaxationTime float64 `yaml:"relaxation_time"`
	Chains         int     `yaml:"chains"`
	Boltzmann      float64 `yaml:"boltzmann"`
}

type InitStateConfig struct {
	Pos float64 `yaml:"pos"`
	Vel float64 `yaml:"vel"`
}

func DefaultConfig() *Config {
	return &Config{
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Integrator: "rk4",
		Chain: ChainConfig{
			NumMasses: 1,
			Mass:      DefaultMass,
			Stiffness: DefaultStiffness,
		},
		Thermostat: ThermostatConfig{
			Enabled:        true,
			Temperature:    DefaultBathTemp,
			RelaxationTime: DefaultRelaxation,
			Chains:         DefaultChains,
			Boltzmann:      DefaultBoltzmann,
		},
		InitState: InitStateConfig{Pos: 1.0},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("config: dt must be positive, got %g", c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("config: duration must be positive, got %g", c.Duration)
	}
	if c.Chain.NumMasses < 1 {
		return fmt.Errorf("config: num_masses must be at least 1, got %d", c.Chain.NumMasses)
	}
	if c.Chain.Mass <= 0 {
		return fmt.Errorf("config: mass must be positive, got %g", c.Chain.Mass)
	}
	if c.Chain.Stiffness < 0 {
		return fmt.Errorf("config: stiffness must be nonnegative, got %g", c.Chain.Stiffness)
	}
	if c.Chain.Damping < 0 {
		return fmt.Errorf("config: damping must be nonnegative, got %g", c.Chain.Damping)
	}
	return nil
}
