package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/mvadai/blond/internal/wake"
)

// WakeFunction evaluates the single-particle wake [V] a witness feels a time
// t after the source charge. Zero ahead of the source (causality); the
// leading particle's own kick is the t=0 self-wake, half the full value.
func WakeFunction(c wake.Coefficients, t float64) float64 {
	if t < 0 {
		return 0
	}
	w := c.Const * math.Exp(-c.Alpha*t) *
		(math.Cos(c.OmegaBar*t) + c.C1*math.Sin(c.OmegaBar*t))
	if t == 0 {
		return w / 2
	}
	return w
}

// SampleWake evaluates the wake on a uniform n-point grid with spacing
// step seconds.
func SampleWake(c wake.Coefficients, n int, step float64) []float64 {
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = WakeFunction(c, float64(i)*step)
	}
	return samples
}

// PowerSpectrum returns the magnitude of the one-sided discrete spectrum of
// a real signal.
func PowerSpectrum(samples []float64) []float64 {
	spectrum := fft.FFTReal(samples)
	half := len(spectrum) / 2
	ps := make([]float64, half)
	for i := 0; i < half; i++ {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// FrequencyAxis returns the frequency [Hz] of each one-sided spectrum bin
// for an n-point signal sampled every step seconds.
func FrequencyAxis(n int, step float64) []float64 {
	half := n / 2
	axis := make([]float64, half)
	for i := 0; i < half; i++ {
		axis[i] = float64(i) / (float64(n) * step)
	}
	return axis
}

// PeakFrequency returns the frequency of the largest spectrum bin, skipping
// the DC bin.
func PeakFrequency(ps, freqs []float64) float64 {
	best := 0.0
	bestMag := math.Inf(-1)
	for i := 1; i < len(ps) && i < len(freqs); i++ {
		if ps[i] > bestMag {
			bestMag = ps[i]
			best = freqs[i]
		}
	}
	return best
}
