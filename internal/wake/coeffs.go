package wake

import "math"

// Elementary charge [C], CODATA 2018 exact value.
const elementaryCharge = 1.602176634e-19

// Resonator describes one resonant cavity mode as a damped harmonic
// oscillator.
type Resonator struct {
	ShuntImpedance float64 // [Ohm]
	AngularFreq    float64 // [rad/s]
	Quality        float64
}

// Coefficients are the fixed scalars the recurrence and the reference sum
// share, derived once from the resonator and the beam normalization. All
// fields are exported for diagnostics.
type Coefficients struct {
	Alpha    float64 // damping rate [1/s]
	OmegaBar float64 // damped angular frequency [rad/s]
	Const    float64 // voltage scale per macro-particle [V]
	C1       float64
	C2       float64
	C3       float64
	C4       float64
}

// DeriveCoefficients is pure: identical inputs yield bit-identical outputs.
// The formulas are only real-valued in the under-damped regime Q > 0.5.
func DeriveCoefficients(res Resonator, nMacroparticles int, nParticles float64) (Coefficients, error) {
	if res.Quality <= 0.5 {
		return Coefficients{}, ErrOverdamped
	}
	if nMacroparticles <= 0 {
		return Coefficients{}, ErrNoMacroparticles
	}

	alpha := res.AngularFreq / (2 * res.Quality)
	omegaBar := math.Sqrt(res.AngularFreq*res.AngularFreq - alpha*alpha)

	return Coefficients{
		Alpha:    alpha,
		OmegaBar: omegaBar,
		Const: -elementaryCharge * res.ShuntImpedance * res.AngularFreq *
			nParticles / (float64(nMacroparticles) * res.Quality),
		C1: -alpha / omegaBar,
		C2: -res.ShuntImpedance * res.AngularFreq / (res.Quality * omegaBar),
		C3: res.AngularFreq * res.Quality / (res.ShuntImpedance * omegaBar),
		C4: alpha / omegaBar,
	}, nil
}

// propagate advances the two recurrence components over a time gap using the
// closed-form impulse response of the damped oscillator.
func (c Coefficients) propagate(x1, x2, gap float64) (float64, float64) {
	e := math.Exp(-c.Alpha * gap)
	cos := math.Cos(c.OmegaBar * gap)
	sin := math.Sin(c.OmegaBar * gap)

	p1 := e * ((cos+c.C1*sin)*x1 + c.C2*sin*x2)
	p2 := e * (c.C3*sin*x1 + (cos+c.C4*sin)*x2)
	return p1, p2
}
