// Package services provides domain services that coordinate business rules
// across multiple aggregates of the booking system.
//
// The package includes:
//   - CityMatcher: a pure service checking a broadcast vendor set against the
//     order's city; mismatches are reported, never denied, since operators may
//     deliberately offer a job out of town
package services
