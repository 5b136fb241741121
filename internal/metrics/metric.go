package metrics

import "github.com/san-kum/nbody/internal/physics"

// Metric accumulates a scalar over observations of a run. Observe must not
// modify bodies or pairs.
type Metric interface {
	Name() string
	Observe(step int, bodies []physics.Body, pairs []physics.Pair)
	Value() float64
	Reset()
}
