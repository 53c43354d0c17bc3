package wake

import (
	"github.com/mvadai/blond/internal/beam"
	"github.com/mvadai/blond/internal/compute"
)

// Engine computes the induced voltage a resonant mode exerts on a beam and
// applies it to the particle energies in place. One engine serves one beam,
// called in strict turn order; it is not safe for concurrent use.
type Engine struct {
	beam    *beam.Particles
	coeffs  Coefficients
	tRev    float64 // revolution period [s]
	state   State
	phase   Phase
	induced []float64
	backend compute.Backend
}

// New derives the recurrence coefficients and seeds the wake state from the
// beam's last arrival time. The induced-voltage buffer is sized to the beam
// at construction; the beam's length must not change afterwards.
func New(b *beam.Particles, res Resonator, nMacroparticles int, nParticles, tRev float64) (*Engine, error) {
	coeffs, err := DeriveCoefficients(res, nMacroparticles, nParticles)
	if err != nil {
		return nil, err
	}
	return NewFromCoefficients(b, coeffs, tRev)
}

// NewFromCoefficients builds an engine around precomputed coefficients.
// Besides serving New, it lets diagnostics run the recurrence with synthetic
// coefficient sets that no physical resonator produces.
func NewFromCoefficients(b *beam.Particles, coeffs Coefficients, tRev float64) (*Engine, error) {
	if b.N() == 0 {
		return nil, ErrEmptyBeam
	}

	e := &Engine{
		beam:    b,
		coeffs:  coeffs,
		tRev:    tRev,
		induced: make([]float64, b.N()),
		backend: compute.GetBackend(),
	}
	e.state = State{X1: 1, X2: 0, LastTime: b.Dt[b.N()-1]}
	e.induced[0] = coeffs.Const / 2
	return e, nil
}

// SetBackend selects the execution backend for the quadratic reference sum.
// The recurrence itself is strictly sequential and unaffected.
func (e *Engine) SetBackend(b compute.Backend) {
	e.backend = b
}

// InducedVoltage exposes the per-particle voltage [V] written by the last
// tracking call. The slice aliases the engine's buffer; it is overwritten,
// never accumulated, on each call.
func (e *Engine) InducedVoltage() []float64 {
	return e.induced
}

func (e *Engine) Coefficients() Coefficients {
	return e.coeffs
}

func (e *Engine) WakeState() State {
	return e.state
}

func (e *Engine) Phase() Phase {
	return e.phase
}

// TrackInitial runs one first-turn pass of the MuSiC recurrence: the beam is
// sorted by arrival time, the leading particle receives its self-wake, and
// the two state components propagate forward particle by particle. Cost is
// linear in the particle count.
//
// Multi-turn sequences call this for turn 1 and TrackContinuation afterwards.
func (e *Engine) TrackInitial() {
	e.beam.SortByArrival()

	e.induced[0] = e.coeffs.Const / 2
	e.beam.DE[0] += e.induced[0]
	e.state.X1, e.state.X2 = 1, 0

	e.sweep()

	e.state.LastTime = e.beam.Dt[e.beam.N()-1]
	e.phase = PhaseTracked
}

// TrackContinuation runs one follow-up turn. Instead of resetting, it
// bridges the gap from the previous turn's last particle around the ring to
// this turn's first particle, so the recurrence spans turn boundaries
// without re-summing history. Returns ErrNotTracked before any initial turn.
func (e *Engine) TrackContinuation() error {
	if e.phase == PhaseFresh {
		return ErrNotTracked
	}

	e.beam.SortByArrival()

	gap := e.beam.Dt[0] + e.tRev - e.state.LastTime
	p1, p2 := e.coeffs.propagate(e.state.X1, e.state.X2, gap)

	e.induced[0] = e.coeffs.Const * (0.5 + p1)
	e.beam.DE[0] += e.induced[0]
	e.state.X1, e.state.X2 = p1+1, p2

	e.sweep()

	e.state.LastTime = e.beam.Dt[e.beam.N()-1]
	return nil
}

// sweep advances the recurrence over the sorted ensemble, writing voltages
// for particles 1..N-1 and applying them to the energies. Consecutive equal
// arrival times are ordinary steps: the gap propagation degenerates to the
// identity and the later particle still feels the earlier one's wake.
func (e *Engine) sweep() {
	dt := e.beam.Dt
	de := e.beam.DE
	x1, x2 := e.state.X1, e.state.X2

	for i := 0; i < len(dt)-1; i++ {
		p1, p2 := e.coeffs.propagate(x1, x2, dt[i+1]-dt[i])

		e.induced[i+1] = e.coeffs.Const * (0.5 + p1)
		de[i+1] += e.induced[i+1]

		x1, x2 = p1+1, p2
	}

	e.state.X1, e.state.X2 = x1, x2
}

// TrackReference recomputes the induced voltage from the physical definition
// directly: for every particle, sum the decaying-oscillatory contribution of
// every earlier particle. Quadratic cost; it exists as the correctness
// oracle for the recurrence, not for production tracking. It neither reads
// nor writes the recurrence state, so a reference run cannot corrupt a
// multi-turn sequence.
func (e *Engine) TrackReference() {
	e.beam.SortByArrival()

	e.induced[0] = e.coeffs.Const / 2
	e.beam.DE[0] += e.induced[0]

	e.backend.WakeSum(e.beam.Dt, e.coeffs.Alpha, e.coeffs.OmegaBar, e.coeffs.C1, e.induced)

	for i := 1; i < len(e.induced); i++ {
		e.induced[i] = e.coeffs.Const * (0.5 + e.induced[i])
		e.beam.DE[i] += e.induced[i]
	}
}
