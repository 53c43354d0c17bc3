package config

var Presets = map[string]*Config{
	// Broadband mode: heavy damping, wake dies within a fraction of a turn.
	"broadband": {
		Machine:   MachineConfig{TRev: 1e-6, Turns: 20},
		Resonator: ResonatorConfig{ShuntImpedance: 1e6, Frequency: 1e9, Quality: 1.0},
		Beam:      BeamConfig{Macroparticles: 5000, Intensity: 1e10, Sigma: 1e-10, Seed: 42},
		Tracking:  TrackingConfig{Backend: "auto", Tolerance: 1e-9},
	},
	// Narrowband cavity mode: high Q, the wake survives turn to turn and the
	// continuation path matters.
	"narrowband": {
		Machine:   MachineConfig{TRev: 1e-6, Turns: 200},
		Resonator: ResonatorConfig{ShuntImpedance: 5e6, Frequency: 2e8, Quality: 1e4},
		Beam:      BeamConfig{Macroparticles: 5000, Intensity: 5e10, Sigma: 5e-10, Seed: 42},
		Tracking:  TrackingConfig{Backend: "auto", Tolerance: 1e-9},
	},
	// Small ensemble where the quadratic reference is still cheap; useful
	// with the validate command.
	"oracle": {
		Machine:   MachineConfig{TRev: 1e-6, Turns: 1},
		Resonator: ResonatorConfig{ShuntImpedance: 1e6, Frequency: 1e9, Quality: 2.0},
		Beam:      BeamConfig{Macroparticles: 300, Intensity: 1e10, Sigma: 1e-10, Seed: 7},
		Tracking:  TrackingConfig{Backend: "serial", Tolerance: 1e-9},
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
