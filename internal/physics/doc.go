// Package physics provides the body model and the pure functions of the
// n-body system.
//
// Bodies live in a slice that acts as an arena; a [Handle] is an index into
// it. The pair index built by [BuildPairs] stores handles rather than copies,
// so every in-place update of a body is seen through each pair containing it.
//
//   - [Body]: point mass with position, velocity and mass
//   - [BuildPairs]: all unordered pairs i < j, in ascending order
//   - [OffsetMomentum]: zero the total momentum through a reference body
//   - [Energy]: potential plus kinetic energy of the current state
//   - [Jovian]: the sun and the four outer planets
//
// Units are astronomical units, years and solar masses scaled by [SolarMass],
// which makes the gravitational constant 1.
//
// # Example
//
//	bodies := physics.Jovian()
//	pairs := physics.BuildPairs(len(bodies))
//	if err := physics.OffsetMomentum(bodies, 0); err != nil {
//	    return err
//	}
//	e := physics.Energy(bodies, pairs)
package physics
