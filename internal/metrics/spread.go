package metrics

import (
	"math"

	"github.com/mvadai/blond/internal/beam"
)

// EnergySpread reports the rms energy deviation of the beam as of the last
// observed turn.
type EnergySpread struct {
	name    string
	current float64
	samples int
}

func NewEnergySpread() *EnergySpread {
	return &EnergySpread{name: "energy_spread"}
}

func (e *EnergySpread) Name() string { return e.name }

func (e *EnergySpread) Observe(b *beam.Particles, induced []float64, turn int) {
	if b.N() == 0 {
		return
	}
	sum := 0.0
	for _, de := range b.DE {
		sum += de * de
	}
	e.current = math.Sqrt(sum / float64(b.N()))
	e.samples++
}

func (e *EnergySpread) Value() float64 { return e.current }

func (e *EnergySpread) Reset() {
	e.current = 0
	e.samples = 0
}

// Centroid reports the mean arrival time of the beam as of the last
// observed turn.
type Centroid struct {
	name    string
	current float64
}

func NewCentroid() *Centroid {
	return &Centroid{name: "centroid"}
}

func (c *Centroid) Name() string { return c.name }

func (c *Centroid) Observe(b *beam.Particles, induced []float64, turn int) {
	if b.N() == 0 {
		return
	}
	sum := 0.0
	for _, dt := range b.Dt {
		sum += dt
	}
	c.current = sum / float64(b.N())
}

func (c *Centroid) Value() float64 { return c.current }

func (c *Centroid) Reset() { c.current = 0 }
