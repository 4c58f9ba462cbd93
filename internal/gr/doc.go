// Package gr adds post-Newtonian general-relativistic corrections to the
// accelerations of an N-body system, on top of Newtonian gravity computed
// by the host simulation.
//
// Three models are provided, in increasing fidelity and cost:
//
//   - [ApplyExplicit]: single dominant-mass correction
//     (Benitez & Gallardo 2008), O(N)
//   - [ApplyPotential]: radial potential-only correction
//     (Nobili & Roxburgh 1986), O(N)
//   - [Corrector.ApplyImplicit]: full multi-body corrector approximating the
//     Einstein-Infeld-Hoffmann equations via fixed-point iteration, O(N³)
//
// All three are weak-field, order-1/c² approximations. They read mass,
// position, and velocity, and add into each body's acceleration; the host
// must already have populated accelerations with the Newtonian contribution.
//
// The implicit model keeps per-simulation scratch buffers in a [Corrector],
// grown on demand and reused across calls. A Corrector must not be shared
// between concurrent callers.
package gr
