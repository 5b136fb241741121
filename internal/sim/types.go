package sim

import "github.com/san-kum/nbody/internal/physics"

// Result holds the readings of one run.
//
// Bodies is the final state, owned by the caller. Steps is the number of
// steps completed; it is less than the requested count only when the run was
// canceled.
type Result struct {
	InitialEnergy float64
	FinalEnergy   float64
	Steps         int
	Bodies        []physics.Body
	Metrics       map[string]float64
}
