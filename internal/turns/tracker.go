package turns

import (
	"context"
	"fmt"
	"math"

	"github.com/mvadai/blond/internal/beam"
	"github.com/mvadai/blond/internal/wake"
)

// Metric accumulates one scalar observable over a tracked run.
type Metric interface {
	Name() string
	Observe(b *beam.Particles, induced []float64, turn int)
	Value() float64
	Reset()
}

// Observer receives the beam and voltage after every tracked turn.
type Observer interface {
	OnTurn(b *beam.Particles, induced []float64, turn int)
}

type Config struct {
	Turns int
}

type Result struct {
	Turns        int
	FirstVoltage []float64 // induced voltage on the leading particle, per turn [V]
	PeakVoltage  []float64 // max |V| over the ensemble, per turn [V]
	EnergySpread []float64 // rms energy deviation after the turn [eV]
	Metrics      map[string]float64
}

// Tracker drives one engine over successive turns: the first turn through
// the initial-tracking path, every later turn through continuation. It owns
// sequencing; the engine owns the physics.
type Tracker struct {
	engine    *wake.Engine
	beam      *beam.Particles
	metrics   []Metric
	observers []Observer
}

func New(engine *wake.Engine, b *beam.Particles) *Tracker {
	return &Tracker{
		engine:    engine,
		beam:      b,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (t *Tracker) AddMetric(m Metric)     { t.metrics = append(t.metrics, m) }
func (t *Tracker) AddObserver(o Observer) { t.observers = append(t.observers, o) }

func (t *Tracker) Run(ctx context.Context, cfg Config) (*Result, error) {
	if cfg.Turns <= 0 {
		return nil, fmt.Errorf("turns must be positive, got %d", cfg.Turns)
	}

	result := &Result{
		Turns:        cfg.Turns,
		FirstVoltage: make([]float64, 0, cfg.Turns),
		PeakVoltage:  make([]float64, 0, cfg.Turns),
		EnergySpread: make([]float64, 0, cfg.Turns),
		Metrics:      make(map[string]float64),
	}

	for _, m := range t.metrics {
		m.Reset()
	}

	for turn := 1; turn <= cfg.Turns; turn++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if turn == 1 {
			t.engine.TrackInitial()
		} else if err := t.engine.TrackContinuation(); err != nil {
			return result, err
		}

		induced := t.engine.InducedVoltage()
		for _, m := range t.metrics {
			m.Observe(t.beam, induced, turn)
		}
		for _, o := range t.observers {
			o.OnTurn(t.beam, induced, turn)
		}

		result.FirstVoltage = append(result.FirstVoltage, induced[0])
		result.PeakVoltage = append(result.PeakVoltage, PeakAbs(induced))
		result.EnergySpread = append(result.EnergySpread, RMS(t.beam.DE))
	}

	for _, m := range t.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

// PeakAbs returns the largest absolute value in vs, 0 for an empty slice.
func PeakAbs(vs []float64) float64 {
	peak := 0.0
	for _, v := range vs {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	return peak
}

// RMS returns the root mean square of vs, 0 for an empty slice.
func RMS(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vs {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(vs)))
}
