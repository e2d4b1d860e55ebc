// Package ports defines the contracts between the application core and its
// adapters: repositories, the unit of work, and the external collaborators
// the order lifecycle depends on.
package ports

import (
	"context"

	"booking/internal/core/domain/model/kernel"
	"booking/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
//
// The order row is the only shared mutable resource in the engine, and it is
// mutated exclusively through UpdateIfStatus, a conditional write keyed on
// the status the caller loaded. There is deliberately no unconditional Update.
type OrderRepository interface {
	// Add persists a new order aggregate together with its line items.
	Add(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate with its line items and open offers.
	// Returns errs.ObjectNotFoundError for an unknown id.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate retrieves an order like Get but takes a row-level lock,
	// serializing concurrent mutators of the same order. Only meaningful
	// inside an open unit-of-work transaction.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// UpdateIfStatus persists the aggregate's mutable fields (status, vendor
	// assignment, broadcast set, payment bookkeeping) only if the stored
	// status still equals expected, the status the caller loaded the
	// aggregate at. The write is a single conditional UPDATE: when another
	// writer got there first, no row matches and a VersionIsInvalidError is
	// returned instead of silently overwriting.
	UpdateIfStatus(ctx context.Context, aggregate *order.Order, expected order.Status) error

	// GetAllInStatus retrieves all orders currently in the given status,
	// oldest update first.
	GetAllInStatus(ctx context.Context, status order.Status) ([]*order.Order, error)

	// CountCompletedByVendor counts completed orders awarded to the vendor.
	// This is the authoritative source of a vendor's completed-job count.
	CountCompletedByVendor(ctx context.Context, vendorID kernel.UUID) (int64, error)
}
