package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/relsim/internal/gr"
	"github.com/san-kum/relsim/internal/nbody"
)

func testSystem() *nbody.System {
	const g = 1.0
	r := 0.387
	v := math.Sqrt(g * 1.000001 / r)
	bodies := []gr.Body{
		{Mass: 1.0, Vel: gr.Vec3{Y: -v * 1e-6}},
		{Mass: 1e-6, Pos: gr.Vec3{X: r}, Vel: gr.Vec3{Y: v}},
	}
	return nbody.NewSystem(bodies, g, 1e4)
}

func TestEnergyDriftStaysSmall(t *testing.T) {
	sys := testSystem()
	m := NewEnergyDrift()

	m.Observe(sys)
	for i := 0; i < 5000; i++ {
		sys.Step(1e-4)
		m.Observe(sys)
	}

	if m.Value() > 1e-6 {
		t.Errorf("energy drift %.3e too large", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestMomentumDrift(t *testing.T) {
	sys := testSystem()
	m := NewMomentumDrift()

	m.Observe(sys)
	for i := 0; i < 1000; i++ {
		sys.Step(1e-4)
		m.Observe(sys)
	}

	if m.Value() > 1e-10 {
		t.Errorf("momentum drift %.3e, want ~0", m.Value())
	}
}
