package physics

import "gonum.org/v1/gonum/spatial/r3"

// Jovian returns the sun and the four outer planets at the benchmark epoch.
// Velocities are given per day and scaled to per year; masses are in solar
// masses scaled by SolarMass. The sun is body 0 and starts at rest.
func Jovian() []Body {
	return []Body{
		{
			Label: "sun",
			Mass:  SolarMass,
		},
		{
			Label: "jupiter",
			Pos:   r3.Vec{X: 4.84143144246472090e+00, Y: -1.16032004402742839e+00, Z: -1.03622044471123109e-01},
			Vel: r3.Vec{
				X: 1.66007664274403694e-03 * DaysPerYear,
				Y: 7.69901118419740425e-03 * DaysPerYear,
				Z: -6.90460016972063023e-05 * DaysPerYear,
			},
			Mass: 9.54791938424326609e-04 * SolarMass,
		},
		{
			Label: "saturn",
			Pos:   r3.Vec{X: 8.34336671824457987e+00, Y: 4.12479856412430479e+00, Z: -4.03523417114321381e-01},
			Vel: r3.Vec{
				X: -2.76742510726862411e-03 * DaysPerYear,
				Y: 4.99852801234917238e-03 * DaysPerYear,
				Z: 2.30417297573763929e-05 * DaysPerYear,
			},
			Mass: 2.85885980666130812e-04 * SolarMass,
		},
		{
			Label: "uranus",
			Pos:   r3.Vec{X: 1.28943695621391310e+01, Y: -1.51111514016986312e+01, Z: -2.23307578892655734e-01},
			Vel: r3.Vec{
				X: 2.96460137564761618e-03 * DaysPerYear,
				Y: 2.37847173959480950e-03 * DaysPerYear,
				Z: -2.96589568540237556e-05 * DaysPerYear,
			},
			Mass: 4.36624404335156298e-05 * SolarMass,
		},
		{
			Label: "neptune",
			Pos:   r3.Vec{X: 1.53796971148509165e+01, Y: -2.59193146099879641e+01, Z: 1.79258772950371181e-01},
			Vel: r3.Vec{
				X: 2.68067772490389322e-03 * DaysPerYear,
				Y: 1.62824170038242295e-03 * DaysPerYear,
				Z: -9.51592254519715870e-05 * DaysPerYear,
			},
			Mass: 5.15138902046611451e-05 * SolarMass,
		},
	}
}
