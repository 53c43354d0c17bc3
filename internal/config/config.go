package config

import (
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultTRev           = 1e-6
	DefaultTurns          = 10
	DefaultShuntImpedance = 1e6
	DefaultFrequency      = 1e9
	DefaultQuality        = 1.0
	DefaultMacroparticles = 1000
	DefaultIntensity      = 1e10
	DefaultSigma          = 1e-10
	DefaultSeed           = 42
)

type Config struct {
	Machine   MachineConfig   `yaml:"machine"`
	Resonator ResonatorConfig `yaml:"resonator"`
	Beam      BeamConfig      `yaml:"beam"`
	Tracking  TrackingConfig  `yaml:"tracking"`
}

type MachineConfig struct {
	TRev  float64 `yaml:"t_rev"` // revolution period [s]
	Turns int     `yaml:"turns"`
}

type ResonatorConfig struct {
	ShuntImpedance float64 `yaml:"shunt_impedance"` // [Ohm]
	Frequency      float64 `yaml:"frequency"`       // resonant frequency [Hz]
	Quality        float64 `yaml:"quality"`
}

// AngularFreq returns the resonant angular frequency [rad/s].
func (r ResonatorConfig) AngularFreq() float64 {
	return 2 * math.Pi * r.Frequency
}

type BeamConfig struct {
	Macroparticles int     `yaml:"macroparticles"`
	Intensity      float64 `yaml:"intensity"` // real particles represented
	Mean           float64 `yaml:"mean"`      // arrival-time centroid [s]
	Sigma          float64 `yaml:"sigma"`     // arrival-time spread [s]
	Seed           int64   `yaml:"seed"`
}

type TrackingConfig struct {
	Backend   string  `yaml:"backend"`   // serial, parallel, auto
	Tolerance float64 `yaml:"tolerance"` // relative, for validate runs
}

func DefaultConfig() *Config {
	return &Config{
		Machine: MachineConfig{
			TRev:  DefaultTRev,
			Turns: DefaultTurns,
		},
		Resonator: ResonatorConfig{
			ShuntImpedance: DefaultShuntImpedance,
			Frequency:      DefaultFrequency,
			Quality:        DefaultQuality,
		},
		Beam: BeamConfig{
			Macroparticles: DefaultMacroparticles,
			Intensity:      DefaultIntensity,
			Sigma:          DefaultSigma,
			Seed:           DefaultSeed,
		},
		Tracking: TrackingConfig{
			Backend:   "auto",
			Tolerance: 1e-9,
		},
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
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
