package gr

import "math"

// ApplyExplicit adds the single dominant-mass post-Newtonian correction of
// Benitez & Gallardo (2008) to every body's acceleration. Body 0 is treated
// as the dominant mass; it receives the mass-weighted back-reaction, so the
// net correction carries no total force. Valid when body 0 holds nearly all
// of the system mass.
func ApplyExplicit(bodies []Body, g, c float64) {
	if len(bodies) < 2 {
		return
	}
	sun := bodies[0]
	for i := 1; i < len(bodies); i++ {
		d := bodies[i].Pos.Sub(sun.Pos)
		dv := bodies[i].Vel.Sub(sun.Vel)
		r2 := d.Norm2()
		r := math.Sqrt(r2)

		alpha := g * sun.Mass / (r2 * r * c * c)
		beta := 4*g*sun.Mass/r - dv.Norm2()
		gamma := 4 * dv.Dot(d)

		da := d.Scale(alpha * beta).Add(dv.Scale(alpha * gamma))
		bodies[i].Acc = bodies[i].Acc.Add(da)
		bodies[0].Acc = bodies[0].Acc.Sub(da.Scale(bodies[i].Mass / sun.Mass))
	}
}

// ApplyPotential adds the radial potential-only correction of Nobili &
// Roxburgh (1986): an extra attractive 1/r³ force term from the dominant
// mass. Velocities never enter, which makes the term cheap and symplectic-
// integrator friendly, but there is no back-reaction on body 0.
func ApplyPotential(bodies []Body, g, c float64) {
	if len(bodies) < 2 {
		return
	}
	sun := bodies[0]
	prefac1 := 6 * g * sun.Mass * g * sun.Mass / (c * c)
	for i := 1; i < len(bodies); i++ {
		d := bodies[i].Pos.Sub(sun.Pos)
		r2 := d.Norm2()
		bodies[i].Acc = bodies[i].Acc.Sub(d.Scale(prefac1 / (r2 * r2)))
	}
}
