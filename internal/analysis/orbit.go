// Package analysis provides orbit diagnostics: osculating elements and
// perihelion precession tracking for a two-body subsystem.
package analysis

import (
	"math"

	"github.com/san-kum/relsim/internal/gr"
)

// Elements holds the osculating orbital elements recoverable from a single
// relative state vector.
type Elements struct {
	SemiMajor    float64
	Eccentricity float64
	Period       float64
}

// Osculating computes elements of the orbit of body orbiter around body
// primary, treating the pair as a Keplerian two-body problem with
// mu = G(m1+m2).
func Osculating(primary, orbiter gr.Body, g float64) Elements {
	mu := g * (primary.Mass + orbiter.Mass)
	r := orbiter.Pos.Sub(primary.Pos)
	v := orbiter.Vel.Sub(primary.Vel)

	rn := r.Norm()
	energy := 0.5*v.Norm2() - mu/rn
	a := -mu / (2 * energy)

	h := gr.Vec3{
		X: r.Y*v.Z - r.Z*v.Y,
		Y: r.Z*v.X - r.X*v.Z,
		Z: r.X*v.Y - r.Y*v.X,
	}
	e2 := 1 - h.Norm2()/(mu*a)
	if e2 < 0 {
		e2 = 0
	}

	return Elements{
		SemiMajor:    a,
		Eccentricity: math.Sqrt(e2),
		Period:       2 * math.Pi * math.Sqrt(a*a*a/mu),
	}
}

// TheoreticalRate is the first-order GR perihelion advance per orbit,
// 6*pi*G*M / (c^2 a (1-e^2)), in radians.
func TheoreticalRate(g, c, m, a, e float64) float64 {
	return 6 * math.Pi * g * m / (c * c * a * (1 - e*e))
}
