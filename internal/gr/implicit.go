package gr

import "math"

// Override replaces the Newtonian acceleration captured for one body at the
// start of an implicit call. Hosts whose gravity solver intentionally skips
// some interaction supply the corrected value here instead of the corrector
// guessing at solver internals.
type Override struct {
	Index int
	Acc   Vec3
}

// PairOverrides builds the override list for a host that skipped the 0-1
// interaction: the captured accelerations of bodies 0 and 1 are replaced
// with their incoming values plus the exact two-body Newtonian force.
func PairOverrides(bodies []Body, g float64) []Override {
	if len(bodies) < 2 {
		return nil
	}
	d := bodies[0].Pos.Sub(bodies[1].Pos)
	r2 := d.Norm2()
	prefac := -g / (r2 * math.Sqrt(r2))
	return []Override{
		{Index: 0, Acc: bodies[0].Acc.Add(d.Scale(prefac * bodies[1].Mass))},
		{Index: 1, Acc: bodies[1].Acc.Sub(d.Scale(prefac * bodies[0].Mass))},
	}
}

// ApplyImplicit adds the full multi-body post-Newtonian correction to every
// body's acceleration. Bodies must carry their Newtonian accelerations in
// Acc on entry. With ignoreFirstPair set, the 0-1 Newtonian interaction is
// assumed missing from the incoming accelerations and is restored internally
// before the correction is computed (it is still not added to Acc; only the
// correction is).
func (co *Corrector) ApplyImplicit(bodies []Body, g, c float64, ignoreFirstPair bool) {
	var overrides []Override
	if ignoreFirstPair {
		overrides = PairOverrides(bodies, g)
	}
	deltas := co.Corrections(bodies, g, c, overrides)
	for i := range bodies {
		bodies[i].Acc = bodies[i].Acc.Add(deltas[i])
	}
}

// Corrections computes the per-body post-Newtonian correction vectors
// without mutating the bodies. The returned slice is owned by the Corrector
// and is overwritten by the next call.
//
// The correction approximates the order-1/c² Einstein-Infeld-Hoffmann
// equations of motion. It splits into a closed-form constant term, assembled
// once from positions and velocities, and a term depending on the bodies'
// corrected accelerations, solved by fixed-point substitution. Bodies must
// be pairwise non-coincident; zero separations are a precondition violation
// and yield non-finite output.
func (co *Corrector) Corrections(bodies []Body, g, c float64, overrides []Override) []Vec3 {
	n := len(bodies)
	co.ensure(n)
	c2i := 1 / (c * c)

	co.captureNewtonian(bodies, overrides)
	co.assembleConstant(bodies, g, c2i)
	co.iterate(bodies, g, c2i)

	// Final correction: constant plus converged iterative term. The
	// Newtonian part is already in the host's accelerations and must not
	// be double counted.
	for i := 0; i < n; i++ {
		co.cur[i] = co.cur[i].Add(co.constant[i])
	}
	return co.cur[:n]
}

func (co *Corrector) captureNewtonian(bodies []Body, overrides []Override) {
	for i := range bodies {
		co.newtonian[i] = bodies[i].Acc
	}
	for _, ov := range overrides {
		co.newtonian[ov.Index] = ov.Acc
	}
}

// assembleConstant computes, for every body i, the part of the correction
// that does not depend on the iterated accelerations. The k loop inside the
// pair loop makes this O(N³), the dominant cost of the whole corrector.
func (co *Corrector) assembleConstant(bodies []Body, g, c2i float64) {
	n := len(bodies)
	zero(co.constant[:n])

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			// Potential sums over third bodies: a1 around i, a2 around j.
			var a1, a2 float64
			for k := 0; k < n; k++ {
				if k != i {
					rik := bodies[i].Pos.Sub(bodies[k].Pos).Norm()
					a1 += 4 * c2i * g * bodies[k].Mass / rik
				}
				if k != j {
					rkj := bodies[k].Pos.Sub(bodies[j].Pos).Norm()
					a2 += c2i * g * bodies[k].Mass / rkj
				}
			}

			dij := bodies[i].Pos.Sub(bodies[j].Pos)
			r2 := dij.Norm2()
			rij3i := 1 / (r2 * math.Sqrt(r2))

			vi := bodies[i].Vel
			vj := bodies[j].Vel
			a3 := -vi.Norm2() * c2i
			a4 := -2 * vj.Norm2() * c2i
			a5 := 4 * c2i * vi.Dot(vj)
			rv := dij.Dot(vj)
			a6 := 1.5 * c2i * rv * rv / r2

			// The historical formulation carries a -1 here that folds the
			// Newtonian force into the constant term; it is kept separate
			// in the newtonian field instead.
			factor1 := a1 + a2 + a3 + a4 + a5 + a6
			co.constant[i] = co.constant[i].Add(dij.Scale(g * bodies[j].Mass * factor1 * rij3i))

			factor2 := dij.Dot(vi.Scale(4).Sub(vj.Scale(3)))
			dv := vi.Sub(vj)
			co.constant[i] = co.constant[i].Add(dv.Scale(g * bodies[j].Mass * factor2 * rij3i * c2i))
		}
	}
}

// iterate solves the acceleration-dependent part by fixed-point
// substitution: each round rebuilds the pairwise term from the previous
// round's best total-acceleration estimate. Rounds stop when the largest
// squared relative change falls below convergenceTol, or after maxRounds;
// exhausting the budget is not an error, the best estimate stands.
func (co *Corrector) iterate(bodies []Body, g, c2i float64) {
	n := len(bodies)
	zero(co.prev[:n])
	zero(co.cur[:n])
	co.rounds = 0
	co.residuals = co.residuals[:0]

	for round := 0; round < maxRounds; round++ {
		co.prev, co.cur = co.cur, co.prev
		zero(co.cur[:n])

		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				dij := bodies[i].Pos.Sub(bodies[j].Pos)
				r2 := dij.Norm2()
				rij := math.Sqrt(r2)

				// Best current estimate of each body's total acceleration.
				ati := co.newtonian[i].Add(co.constant[i]).Add(co.prev[i])
				atj := co.newtonian[j].Add(co.constant[j]).Add(co.prev[j])

				prefac1 := g / (r2 * rij * 2) * c2i
				prefac2 := 3.5 * c2i * g / rij

				daj := dij.Dot(atj)
				dai := dij.Dot(ati)

				co.cur[i] = co.cur[i].Add(
					dij.Scale(prefac1 * daj).Add(atj.Scale(prefac2)).Scale(bodies[j].Mass))
				co.cur[j] = co.cur[j].Sub(
					dij.Scale(prefac1 * dai).Add(ati.Scale(prefac2)).Scale(bodies[i].Mass))
			}
		}

		co.rounds = round + 1
		maxRatio := 0.0
		for i := 0; i < n; i++ {
			num := co.cur[i].Sub(co.prev[i]).Norm2()
			den := co.newtonian[i].Add(co.constant[i]).Add(co.cur[i]).Norm2()
			ratio := num / den
			// Near-zero denominators produce Inf/NaN ratios; skip them
			// rather than stalling on a body with no acceleration.
			if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
				continue
			}
			if ratio > maxRatio {
				maxRatio = ratio
			}
		}
		co.residuals = append(co.residuals, maxRatio)
		if maxRatio < convergenceTol {
			break
		}
	}
}
