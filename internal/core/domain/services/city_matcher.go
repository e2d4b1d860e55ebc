package services

import (
	"strings"

	"booking/internal/core/domain/model/order"
	"booking/internal/core/domain/model/vendor"
)

// CityMismatch describes one vendor in a broadcast set that serves a city
// different from the order's.
type CityMismatch struct {
	VendorID   string
	VendorCity string
	OrderCity  string
}

// CityMatcher is a pure domain service comparing a broadcast vendor set
// against the order's city. The check is soft: an operator may knowingly
// offer a job to an out-of-town vendor, so mismatches are reported for
// logging, never turned into a denial.
type CityMatcher struct{}

// NewCityMatcher creates a CityMatcher instance.
func NewCityMatcher() CityMatcher {
	return CityMatcher{}
}

// Mismatches returns one entry per vendor whose city differs from the
// order's. Comparison is case-insensitive; an empty result means every
// vendor serves the order's city.
func (CityMatcher) Mismatches(o *order.Order, vendors []*vendor.Vendor) []CityMismatch {
	var mismatches []CityMismatch
	for _, v := range vendors {
		if !strings.EqualFold(v.City(), o.City()) {
			mismatches = append(mismatches, CityMismatch{
				VendorID:   v.ID().String(),
				VendorCity: v.City(),
				OrderCity:  o.City(),
			})
		}
	}
	return mismatches
}
