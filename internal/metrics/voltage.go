package metrics

import (
	"math"

	"github.com/mvadai/blond/internal/beam"
)

type PeakVoltage struct {
	name string
	peak float64
}

func NewPeakVoltage() *PeakVoltage {
	return &PeakVoltage{name: "peak_voltage"}
}

func (p *PeakVoltage) Name() string { return p.name }

func (p *PeakVoltage) Observe(b *beam.Particles, induced []float64, turn int) {
	for _, v := range induced {
		if a := math.Abs(v); a > p.peak {
			p.peak = a
		}
	}
}

func (p *PeakVoltage) Value() float64 { return p.peak }

func (p *PeakVoltage) Reset() { p.peak = 0 }
