// Package nbody is a minimal gravitational N-body host used to exercise the
// post-Newtonian correctors end to end: pairwise Newtonian gravity, an
// optional GR correction layered on top, and a leapfrog integrator.
package nbody

import (
	"fmt"
	"math"

	"github.com/san-kum/relsim/internal/gr"
)

// Correction selects which post-Newtonian model a System applies on top of
// Newtonian gravity.
type Correction int

const (
	None Correction = iota
	Explicit
	Potential
	Implicit
)

func (c Correction) String() string {
	switch c {
	case None:
		return "none"
	case Explicit:
		return "explicit"
	case Potential:
		return "potential"
	case Implicit:
		return "implicit"
	default:
		return fmt.Sprintf("correction(%d)", int(c))
	}
}

func ParseCorrection(s string) (Correction, error) {
	switch s {
	case "none", "":
		return None, nil
	case "explicit":
		return Explicit, nil
	case "potential":
		return Potential, nil
	case "implicit":
		return Implicit, nil
	default:
		return None, fmt.Errorf("unknown correction model %q", s)
	}
}

type System struct {
	Bodies     []gr.Body
	G          float64
	C          float64
	Softening  float64
	Correction Correction

	corrector *gr.Corrector
	t         float64
}

func NewSystem(bodies []gr.Body, g, c float64) *System {
	return &System{
		Bodies:    bodies,
		G:         g,
		C:         c,
		corrector: gr.NewCorrector(),
	}
}

func (s *System) Time() float64 { return s.t }

// CorrectionRounds reports the iteration rounds of the last implicit
// correction, or zero when another model is active.
func (s *System) CorrectionRounds() int {
	if s.Correction != Implicit {
		return 0
	}
	return s.corrector.Rounds()
}

// UpdateAccelerations recomputes every body's acceleration: the pairwise
// Newtonian sum first, then the selected GR correction added on top.
func (s *System) UpdateAccelerations() {
	n := len(s.Bodies)
	eps2 := s.Softening * s.Softening

	for i := 0; i < n; i++ {
		s.Bodies[i].Acc = gr.Vec3{}
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := s.Bodies[j].Pos.Sub(s.Bodies[i].Pos)
			r2 := d.Norm2() + eps2
			r3i := 1 / (r2 * math.Sqrt(r2))

			s.Bodies[i].Acc = s.Bodies[i].Acc.Add(d.Scale(s.G * s.Bodies[j].Mass * r3i))
			s.Bodies[j].Acc = s.Bodies[j].Acc.Sub(d.Scale(s.G * s.Bodies[i].Mass * r3i))
		}
	}

	switch s.Correction {
	case Explicit:
		gr.ApplyExplicit(s.Bodies, s.G, s.C)
	case Potential:
		gr.ApplyPotential(s.Bodies, s.G, s.C)
	case Implicit:
		s.corrector.ApplyImplicit(s.Bodies, s.G, s.C, false)
	}
}

// Step advances the system by dt with kick-drift-kick leapfrog.
func (s *System) Step(dt float64) {
	half := 0.5 * dt
	s.UpdateAccelerations()
	for i := range s.Bodies {
		s.Bodies[i].Vel = s.Bodies[i].Vel.Add(s.Bodies[i].Acc.Scale(half))
		s.Bodies[i].Pos = s.Bodies[i].Pos.Add(s.Bodies[i].Vel.Scale(dt))
	}
	s.UpdateAccelerations()
	for i := range s.Bodies {
		s.Bodies[i].Vel = s.Bodies[i].Vel.Add(s.Bodies[i].Acc.Scale(half))
	}
	s.t += dt
}

// Energy returns the Newtonian total energy. With a correction active this
// is a drift diagnostic, not a conserved 1PN energy.
func (s *System) Energy() float64 {
	ke, pe := 0.0, 0.0
	for i := range s.Bodies {
		ke += 0.5 * s.Bodies[i].Mass * s.Bodies[i].Vel.Norm2()
		for j := i + 1; j < len(s.Bodies); j++ {
			r := s.Bodies[j].Pos.Sub(s.Bodies[i].Pos).Norm()
			pe -= s.G * s.Bodies[i].Mass * s.Bodies[j].Mass / r
		}
	}
	return ke + pe
}

func (s *System) Momentum() gr.Vec3 {
	var p gr.Vec3
	for i := range s.Bodies {
		p = p.Add(s.Bodies[i].Vel.Scale(s.Bodies[i].Mass))
	}
	return p
}

func (s *System) AngularMomentum() gr.Vec3 {
	var l gr.Vec3
	for i := range s.Bodies {
		r, v := s.Bodies[i].Pos, s.Bodies[i].Vel
		l = l.Add(gr.Vec3{
			X: r.Y*v.Z - r.Z*v.Y,
			Y: r.Z*v.X - r.X*v.Z,
			Z: r.X*v.Y - r.Y*v.X,
		}.Scale(s.Bodies[i].Mass))
	}
	return l
}
