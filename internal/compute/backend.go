package compute

type Backend interface {
	Name() string
	Available() bool
	// WakeSum fills acc[i] (for i >= 1) with the summed decaying-oscillator
	// contributions of particles 0..i-1 to particle i, given sorted arrival
	// times. acc[0] is left untouched. The inner sum runs in ascending j
	// order on every backend so results are reproducible across them.
	WakeSum(dt []float64, alpha, omegaBar, coeff1 float64, acc []float64)
	Cleanup()
}

var activeBackend Backend

func init() {
	activeBackend = AutoSelectBackend()
}

func SetBackend(b Backend) {
	if activeBackend != nil {
		activeBackend.Cleanup()
	}
	activeBackend = b
}

func GetBackend() Backend {
	return activeBackend
}

func AutoSelectBackend() Backend {
	return NewParallelBackend()
}

// ByName resolves a configured backend name. Empty and "auto" select the
// best available backend.
func ByName(name string) Backend {
	switch name {
	case "serial":
		return NewSerialBackend()
	case "parallel":
		return NewParallelBackend()
	default:
		return AutoSelectBackend()
	}
}
