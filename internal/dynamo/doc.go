// Package dynamo provides the shared run configuration and error taxonomy
// for the n-body simulation.
//
// The package is a leaf: every other internal package may import it.
//
//   - [Config]: step size, step count, reference body and sampling interval
//   - [DomainError]: failure of an undefined operation (zero reference mass)
//   - sentinel errors for malformed setup ([ErrEmptySystem], [ErrInvalidBody], ...)
//
// All errors are detected during setup, before any body is mutated.
package dynamo
