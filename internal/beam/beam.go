package beam

import (
	"fmt"
	"math"
	"sort"
)

// Particles holds the macro-particle ensemble as two parallel arrays:
// arrival time Dt [s] and energy deviation DE [eV], indexed by particle.
// The arrays are owned by the caller; tracking code borrows them for the
// duration of a call and mutates them in place.
type Particles struct {
	Dt []float64
	DE []float64
}

func New(dt, de []float64) (*Particles, error) {
	if len(dt) != len(de) {
		return nil, fmt.Errorf("beam: dt has %d entries, dE has %d", len(dt), len(de))
	}
	return &Particles{Dt: dt, DE: de}, nil
}

func (p *Particles) N() int {
	return len(p.Dt)
}

// SortByArrival stable-sorts the ensemble by arrival time ascending and
// permutes the energy deviations identically, writing through the caller's
// backing arrays. Calling it on an already-sorted beam is a no-op.
func (p *Particles) SortByArrival() {
	if p.Sorted() {
		return
	}

	n := len(p.Dt)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return p.Dt[idx[a]] < p.Dt[idx[b]]
	})

	dt := make([]float64, n)
	de := make([]float64, n)
	for i, j := range idx {
		dt[i] = p.Dt[j]
		de[i] = p.DE[j]
	}
	copy(p.Dt, dt)
	copy(p.DE, de)
}

// Sorted reports whether arrival times are non-decreasing.
func (p *Particles) Sorted() bool {
	return sort.Float64sAreSorted(p.Dt)
}

// Valid reports whether both arrays are free of NaN and Inf.
func (p *Particles) Valid() bool {
	for i := range p.Dt {
		if math.IsNaN(p.Dt[i]) || math.IsInf(p.Dt[i], 0) {
			return false
		}
		if math.IsNaN(p.DE[i]) || math.IsInf(p.DE[i], 0) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy with freshly allocated arrays.
func (p *Particles) Clone() *Particles {
	dt := make([]float64, len(p.Dt))
	de := make([]float64, len(p.DE))
	copy(dt, p.Dt)
	copy(de, p.DE)
	return &Particles{Dt: dt, DE: de}
}
