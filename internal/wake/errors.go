package wake

import "errors"

// Domain errors surfaced at construction or on sequencing misuse.
var (
	// ErrOverdamped indicates Q <= 0.5, where the damped frequency is not real.
	ErrOverdamped = errors.New("wake: resonator is not under-damped (requires Q > 0.5)")

	// ErrNoMacroparticles indicates a non-positive macro-particle count.
	ErrNoMacroparticles = errors.New("wake: number of macro-particles must be positive")

	// ErrEmptyBeam indicates an engine constructed over a zero-length beam.
	ErrEmptyBeam = errors.New("wake: beam has no particles")

	// ErrNotTracked indicates a continuation turn requested before any
	// initial turn has run on this engine.
	ErrNotTracked = errors.New("wake: continuation before initial turn")
)
