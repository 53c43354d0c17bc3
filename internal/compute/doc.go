// Package compute provides execution backends for the quadratic wake sum.
//
// The sum over earlier particles is independent per target particle, so it
// parallelizes across CPU cores; the MuSiC recurrence itself carries a strict
// sequential dependency and never goes through a backend. Both backends run
// the same formula in the same inner-loop order:
//
//	backend := compute.ByName(cfg.Tracking.Backend)
//	backend.WakeSum(dt, alpha, omegaBar, coeff1, acc)
package compute
