package metrics

import (
	"math"

	"github.com/san-kum/nbody/internal/physics"
	"gonum.org/v1/gonum/spatial/r3"
)

// EnergyDrift tracks the largest relative deviation of total energy from the
// first observation.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(step int, bodies []physics.Body, pairs []physics.Pair) {
	energy := physics.Energy(bodies, pairs)

	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.currentEnergy = energy
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

// Initial returns the energy of the first observation.
func (e *EnergyDrift) Initial() float64 { return e.initialEnergy }

// Current returns the energy of the latest observation.
func (e *EnergyDrift) Current() float64 { return e.currentEnergy }

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

// Sample is one recorded energy reading.
type Sample struct {
	Step   int
	Energy float64
}

// EnergyTrace keeps the most recent energy readings, up to its capacity.
// Value reports the latest reading.
type EnergyTrace struct {
	name     string
	capacity int
	samples  []Sample
}

func NewEnergyTrace(capacity int) *EnergyTrace {
	if capacity < 1 {
		capacity = 1
	}
	return &EnergyTrace{
		name:     "energy",
		capacity: capacity,
		samples:  make([]Sample, 0, capacity),
	}
}

func (e *EnergyTrace) Name() string { return e.name }

func (e *EnergyTrace) Observe(step int, bodies []physics.Body, pairs []physics.Pair) {
	if len(e.samples) == e.capacity {
		copy(e.samples, e.samples[1:])
		e.samples = e.samples[:len(e.samples)-1]
	}
	e.samples = append(e.samples, Sample{Step: step, Energy: physics.Energy(bodies, pairs)})
}

func (e *EnergyTrace) Value() float64 {
	if len(e.samples) == 0 {
		return 0
	}
	return e.samples[len(e.samples)-1].Energy
}

// Samples returns the recorded readings, oldest first.
func (e *EnergyTrace) Samples() []Sample {
	out := make([]Sample, len(e.samples))
	copy(out, e.samples)
	return out
}

// Energies returns the recorded energy values, oldest first.
func (e *EnergyTrace) Energies() []float64 {
	out := make([]float64, len(e.samples))
	for i, s := range e.samples {
		out[i] = s.Energy
	}
	return out
}

func (e *EnergyTrace) Reset() {
	e.samples = e.samples[:0]
}

// MomentumDrift tracks the largest magnitude of total linear momentum seen.
// After momentum normalization it should stay at rounding level.
type MomentumDrift struct {
	name string
	max  float64
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(step int, bodies []physics.Body, pairs []physics.Pair) {
	m.max = math.Max(m.max, r3.Norm(physics.Momentum(bodies)))
}

func (m *MomentumDrift) Value() float64 { return m.max }

func (m *MomentumDrift) Reset() { m.max = 0 }
