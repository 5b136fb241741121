package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Energy returns the total energy of the system. pairs must be the pair
// index of bodies.
func Energy(bodies []Body, pairs []Pair) float64 {
	return PotentialEnergy(bodies, pairs) + KineticEnergy(bodies)
}

// PotentialEnergy returns -Σ m1·m2/|r1-r2| over pairs.
func PotentialEnergy(bodies []Body, pairs []Pair) float64 {
	e := 0.0
	for _, p := range pairs {
		b1, b2 := &bodies[p.A], &bodies[p.B]
		dx := r3.Sub(b1.Pos, b2.Pos)
		e -= (b1.Mass * b2.Mass) / math.Sqrt(r3.Dot(dx, dx))
	}
	return e
}

// KineticEnergy returns Σ m·|v|²/2 over bodies.
func KineticEnergy(bodies []Body) float64 {
	e := 0.0
	for i := range bodies {
		b := &bodies[i]
		e += b.Mass * r3.Dot(b.Vel, b.Vel) / 2
	}
	return e
}
