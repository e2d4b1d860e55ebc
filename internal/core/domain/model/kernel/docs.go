// Package kernel contains the shared value objects of the booking domain:
// UUID identifiers and Money amounts. Both are immutable, validate themselves,
// and must be created through their constructor functions.
package kernel
