package metrics

import (
	"math"
	"testing"

	"github.com/mvadai/blond/internal/beam"
)

func TestPeakVoltage(t *testing.T) {
	m := NewPeakVoltage()
	b := &beam.Particles{Dt: []float64{0, 1, 2}, DE: []float64{0, 0, 0}}

	m.Observe(b, []float64{-3, 2, 1}, 1)
	if m.Value() != 3 {
		t.Errorf("expected 3, got %v", m.Value())
	}

	// The peak is held across turns.
	m.Observe(b, []float64{-1, 1, 0}, 2)
	if m.Value() != 3 {
		t.Errorf("expected peak to persist, got %v", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Errorf("expected 0 after reset, got %v", m.Value())
	}
}

func TestEnergySpread(t *testing.T) {
	m := NewEnergySpread()
	b := &beam.Particles{Dt: []float64{0, 1}, DE: []float64{3, 4}}

	m.Observe(b, nil, 1)

	want := math.Sqrt(12.5)
	if math.Abs(m.Value()-want) > 1e-12 {
		t.Errorf("expected %v, got %v", want, m.Value())
	}

	// Only the latest turn counts.
	b.DE[0], b.DE[1] = 0, 0
	m.Observe(b, nil, 2)
	if m.Value() != 0 {
		t.Errorf("expected 0 for cold beam, got %v", m.Value())
	}
}

func TestCentroid(t *testing.T) {
	m := NewCentroid()
	b := &beam.Particles{Dt: []float64{1e-10, 3e-10}, DE: []float64{0, 0}}

	m.Observe(b, nil, 1)

	if math.Abs(m.Value()-2e-10) > 1e-24 {
		t.Errorf("expected 2e-10, got %v", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Errorf("expected 0 after reset, got %v", m.Value())
	}
}

func TestMetricsEmptyBeam(t *testing.T) {
	b := &beam.Particles{}
	NewEnergySpread().Observe(b, nil, 1)
	NewCentroid().Observe(b, nil, 1)
	NewPeakVoltage().Observe(b, nil, 1)
}
