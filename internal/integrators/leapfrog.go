package integrators

import (
	"fmt"
	"math"

	"github.com/san-kum/nbody/internal/physics"
	"gonum.org/v1/gonum/spatial/r3"
)

// Leapfrog advances an n-body system with a fixed step: all velocities are
// kicked by the pairwise forces, then all positions drift with the new
// velocities. The pair index is built once and reused for every step.
type Leapfrog struct {
	n     int
	pairs []physics.Pair
	dt    float64
}

// NewLeapfrog returns an integrator for systems of n bodies.
func NewLeapfrog(n int, dt float64) *Leapfrog {
	return &Leapfrog{
		n:     n,
		pairs: physics.BuildPairs(n),
		dt:    dt,
	}
}

func (l *Leapfrog) Dt() float64 { return l.dt }

// Pairs returns the pair index shared with energy computations. Callers must
// not modify it.
func (l *Leapfrog) Pairs() []physics.Pair { return l.pairs }

// Advance runs steps iterations in place. It panics if bodies does not have
// the length the integrator was built for.
func (l *Leapfrog) Advance(bodies []physics.Body, steps int) {
	l.checkLen(bodies)
	for i := 0; i < steps; i++ {
		l.kick(bodies)
		l.drift(bodies)
	}
}

// Step runs a single iteration. It panics like Advance on a length mismatch.
func (l *Leapfrog) Step(bodies []physics.Body) {
	l.checkLen(bodies)
	l.kick(bodies)
	l.drift(bodies)
}

func (l *Leapfrog) checkLen(bodies []physics.Body) {
	if len(bodies) != l.n {
		panic(fmt.Sprintf("integrators: leapfrog built for %d bodies, got %d", l.n, len(bodies)))
	}
}

func (l *Leapfrog) kick(bodies []physics.Body) {
	dt := l.dt
	for _, p := range l.pairs {
		b1, b2 := &bodies[p.A], &bodies[p.B]
		dx := r3.Sub(b1.Pos, b2.Pos)
		// dt/r³ folds the inverse-square law and the normalization of dx.
		mag := dt * math.Pow(r3.Dot(dx, dx), -1.5)
		b1.Vel = r3.Sub(b1.Vel, r3.Scale(b2.Mass*mag, dx))
		b2.Vel = r3.Add(b2.Vel, r3.Scale(b1.Mass*mag, dx))
	}
}

func (l *Leapfrog) drift(bodies []physics.Body) {
	dt := l.dt
	for i := range bodies {
		b := &bodies[i]
		b.Pos = r3.Add(b.Pos, r3.Scale(dt, b.Vel))
	}
}
