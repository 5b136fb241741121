package physics

import "math"

const (
	// SolarMass is the mass of the sun in units where G = 1.
	SolarMass = 4 * math.Pi * math.Pi

	// DaysPerYear converts the dataset's per-day velocities to per-year.
	DaysPerYear = 365.24

	// DefaultDt is the benchmark step, in years.
	DefaultDt = 0.01
)
