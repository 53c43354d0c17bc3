// Package wake implements time-domain induced-voltage tracking for a single
// resonant mode using the MuSiC algorithm.
//
// The physical definition of the induced voltage is a convolution of the
// resonator's impulse response with every earlier particle, which costs
// O(N^2) per turn. MuSiC propagates two running state components forward in
// arrival-time order and reproduces the same voltages in O(N):
//
//   - [DeriveCoefficients]: fixed scalars from the resonator description
//   - [Engine.TrackInitial]: first turn of the recurrence
//   - [Engine.TrackContinuation]: later turns, bridging the revolution gap
//   - [Engine.TrackReference]: the O(N^2) definition, kept as the oracle
//
// The algorithm is described in M. Migliorati and L. Palumbo, "Multibunch and
// multiparticle simulation code with an alternative approach to wakefield
// effects", Phys. Rev. ST Accel. Beams 18 (2015).
//
// # Sequencing
//
// One engine serves one beam. Turn 1 must use TrackInitial; turns 2 and on
// use TrackContinuation, which fails with [ErrNotTracked] if no initial turn
// has run. The caller owns beam updates between turns.
package wake
