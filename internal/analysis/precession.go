package analysis

import (
	"math"

	"github.com/san-kum/relsim/internal/gr"
)

// Perihelion records one closest-approach passage of the tracked orbiter.
type Perihelion struct {
	Time      float64
	Longitude float64 // atan2 of the relative position, radians in (-pi, pi]
	R         float64
}

// Precession watches a primary/orbiter pair across simulation steps and
// detects perihelion passages from the sign change of the radial velocity.
// The drift of the perihelion longitude between passages measures apsidal
// precession.
type Precession struct {
	primary, orbiter int

	havePrev bool
	prevRV   float64
	prevT    float64
	prevR    float64
	prevLon  float64

	perihelia []Perihelion
}

func NewPrecession(primary, orbiter int) *Precession {
	return &Precession{primary: primary, orbiter: orbiter}
}

// Observe must be called once per step with the current body snapshot.
func (p *Precession) Observe(bodies []gr.Body, t float64) {
	rel := bodies[p.orbiter].Pos.Sub(bodies[p.primary].Pos)
	vel := bodies[p.orbiter].Vel.Sub(bodies[p.primary].Vel)
	rv := rel.Dot(vel)

	if p.havePrev && p.prevRV < 0 && rv >= 0 {
		// Radial velocity crossed negative to positive: the previous
		// sample is the closest approach seen at this resolution.
		p.perihelia = append(p.perihelia, Perihelion{
			Time:      p.prevT,
			Longitude: p.prevLon,
			R:         p.prevR,
		})
	}

	p.havePrev = true
	p.prevRV = rv
	p.prevT = t
	p.prevR = rel.Norm()
	p.prevLon = math.Atan2(rel.Y, rel.X)
}

// Perihelia returns the passages recorded so far.
func (p *Precession) Perihelia() []Perihelion { return p.perihelia }

// RatePerOrbit is the mean perihelion longitude drift per orbit in radians,
// or zero when fewer than two passages have been seen. Per-orbit drift is
// assumed below pi, which holds for any weak-field configuration.
func (p *Precession) RatePerOrbit() float64 {
	n := len(p.perihelia)
	if n < 2 {
		return 0
	}
	sum := 0.0
	for i := 1; i < n; i++ {
		sum += wrapPi(p.perihelia[i].Longitude - p.perihelia[i-1].Longitude)
	}
	return sum / float64(n-1)
}

// wrapPi maps an angle difference into (-pi, pi].
func wrapPi(d float64) float64 {
	for d > math.Pi {
		d -= 2 * math.Pi
	}
	for d <= -math.Pi {
		d += 2 * math.Pi
	}
	return d
}
