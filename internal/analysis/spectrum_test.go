package analysis

import (
	"math"
	"testing"

	"github.com/mvadai/blond/internal/wake"
)

func testCoefficients(t *testing.T, quality float64) wake.Coefficients {
	t.Helper()
	res := wake.Resonator{
		ShuntImpedance: 1e6,
		AngularFreq:    2 * math.Pi * 1e8,
		Quality:        quality,
	}
	c, err := wake.DeriveCoefficients(res, 100, 1e10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c
}

func TestWakeFunction(t *testing.T) {
	c := testCoefficients(t, 2.0)

	if got := WakeFunction(c, -1e-9); got != 0 {
		t.Errorf("expected zero wake ahead of the source, got %e", got)
	}
	if got, want := WakeFunction(c, 0), c.Const/2; got != want {
		t.Errorf("expected half self-wake %e at t=0, got %e", want, got)
	}

	// The envelope decays with the damping rate.
	period := 2 * math.Pi / c.OmegaBar
	early := math.Abs(WakeFunction(c, period))
	late := math.Abs(WakeFunction(c, 20*period))
	if late >= early {
		t.Errorf("wake envelope not decaying: %e then %e", early, late)
	}
}

func TestSampleWake(t *testing.T) {
	c := testCoefficients(t, 2.0)
	samples := SampleWake(c, 64, 1e-10)

	if len(samples) != 64 {
		t.Fatalf("expected 64 samples, got %d", len(samples))
	}
	if samples[0] != c.Const/2 {
		t.Errorf("expected leading sample %e, got %e", c.Const/2, samples[0])
	}
}

func TestPowerSpectrumPureTone(t *testing.T) {
	const (
		n    = 1024
		freq = 1e6
		step = 1.0 / 64e6
	)

	samples := make([]float64, n)
	for i := range samples {
		samples[i] = math.Sin(2 * math.Pi * freq * float64(i) * step)
	}

	ps := PowerSpectrum(samples)
	freqs := FrequencyAxis(n, step)

	if len(ps) != n/2 || len(freqs) != n/2 {
		t.Fatalf("expected %d one-sided bins, got %d and %d", n/2, len(ps), len(freqs))
	}

	// The tone lands on an exact bin of this grid.
	if got := PeakFrequency(ps, freqs); math.Abs(got-freq) > 1e-6 {
		t.Errorf("expected peak at %e Hz, got %e Hz", freq, got)
	}
}

func TestResonatorSpectrumPeaksAtResonance(t *testing.T) {
	c := testCoefficients(t, 1000)

	const n = 2048
	step := 1.0 / (16 * 1e8)

	samples := SampleWake(c, n, step)
	ps := PowerSpectrum(samples)
	freqs := FrequencyAxis(n, step)

	resolution := 1.0 / (n * step)
	if got := PeakFrequency(ps, freqs); math.Abs(got-1e8) > 2*resolution {
		t.Errorf("expected spectrum peak near 1e8 Hz, got %e Hz", got)
	}
}
