// Package metrics tracks conserved-quantity drift across a simulation run.
// With a GR correction active the Newtonian invariants are diagnostics
// rather than exact constants, but runaway drift still flags an integration
// problem.
package metrics

import (
	"math"

	"github.com/san-kum/relsim/internal/nbody"
)

// Metric observes a system once per step and reduces to a single value.
type Metric interface {
	Name() string
	Observe(sys *nbody.System)
	Value() float64
	Reset()
}

// EnergyDrift reports the maximum relative deviation of the Newtonian total
// energy from its first observed value.
type EnergyDrift struct {
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift() *EnergyDrift { return &EnergyDrift{} }

func (e *EnergyDrift) Name() string { return "energy_drift" }

func (e *EnergyDrift) Observe(sys *nbody.System) {
	energy := sys.Energy()
	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++
	if e.initial != 0 {
		drift := math.Abs(energy-e.initial) / math.Abs(e.initial)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() { *e = EnergyDrift{} }

// MomentumDrift reports the maximum growth of the total linear momentum
// magnitude relative to a velocity scale captured at the first observation.
type MomentumDrift struct {
	scale   float64
	maxAbs  float64
	samples int
}

func NewMomentumDrift() *MomentumDrift { return &MomentumDrift{} }

func (m *MomentumDrift) Name() string { return "momentum_drift" }

func (m *MomentumDrift) Observe(sys *nbody.System) {
	p := sys.Momentum().Norm()
	if m.samples == 0 {
		for i := range sys.Bodies {
			m.scale += sys.Bodies[i].Mass * sys.Bodies[i].Vel.Norm()
		}
		if m.scale == 0 {
			m.scale = 1
		}
	}
	m.samples++
	m.maxAbs = math.Max(m.maxAbs, p)
}

func (m *MomentumDrift) Value() float64 { return m.maxAbs / m.scale }

func (m *MomentumDrift) Reset() { *m = MomentumDrift{} }
