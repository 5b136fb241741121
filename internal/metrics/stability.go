package metrics

import (
	"math"

	"github.com/san-kum/nbody/internal/physics"
	"gonum.org/v1/gonum/spatial/r3"
)

// Stability is the fraction of observations in which every body stayed
// within radius of the origin with finite coordinates.
type Stability struct {
	name       string
	radius     float64
	violations int
	samples    int
}

func NewStability(radius float64) *Stability {
	return &Stability{
		name:   "stability",
		radius: radius,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(step int, bodies []physics.Body, pairs []physics.Pair) {
	s.samples++
	for i := range bodies {
		r := r3.Norm(bodies[i].Pos)
		if math.IsNaN(r) || r > s.radius {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
