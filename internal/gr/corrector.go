package gr

const (
	// maxRounds bounds the fixed-point iteration. The corrector silently
	// keeps the best estimate if the tolerance is not reached; typical
	// planetary configurations converge in 2-3 rounds.
	maxRounds = 10

	// convergenceTol is the threshold on the largest per-body squared
	// relative change between successive iteration rounds.
	convergenceTol = 1e-30
)

// Corrector owns the scratch vector fields of the implicit model. Buffers
// grow on demand and are never shrunk, so repeated calls at a stable body
// count allocate nothing. Zero value is ready to use.
type Corrector struct {
	newtonian []Vec3 // Newtonian accelerations captured at call entry
	constant  []Vec3 // iteration-independent pairwise term
	prev, cur []Vec3 // alternating iteration estimates
	capacity  int

	rounds    int
	residuals []float64
}

// NewCorrector returns an empty Corrector. Buffers are allocated on first use.
func NewCorrector() *Corrector {
	return &Corrector{}
}

// ensure grows all vector fields to hold at least n entries. Prior contents
// are not preserved across a growth; callers re-zero what they need.
func (co *Corrector) ensure(n int) {
	if co.capacity >= n {
		return
	}
	co.newtonian = make([]Vec3, n)
	co.constant = make([]Vec3, n)
	co.prev = make([]Vec3, n)
	co.cur = make([]Vec3, n)
	co.capacity = n
}

// Rounds reports how many iteration rounds the last implicit call used.
func (co *Corrector) Rounds() int { return co.rounds }

// Residuals returns the per-round maximum squared relative change of the
// last implicit call. The slice is reused by the next call.
func (co *Corrector) Residuals() []float64 { return co.residuals }

func zero(v []Vec3) {
	for i := range v {
		v[i] = Vec3{}
	}
}
