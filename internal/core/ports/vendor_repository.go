package ports

import (
	"context"

	"booking/internal/core/domain/model/kernel"
	"booking/internal/core/domain/model/vendor"
)

// VendorRepository defines the read-side contract against the Vendor
// Directory. Full vendor CRUD lives outside this engine; the assignment flow
// only looks vendors up.
type VendorRepository interface {
	// Add persists a new vendor. Exposed for directory seeding and tests.
	Add(ctx context.Context, aggregate *vendor.Vendor) error

	// Get retrieves a vendor by id.
	// Returns errs.ObjectNotFoundError for an unknown id.
	Get(ctx context.Context, id kernel.UUID) (*vendor.Vendor, error)

	// GetByIDs retrieves the vendors for the given ids, in no particular
	// order. Ids that resolve to no vendor are simply absent from the result.
	GetByIDs(ctx context.Context, ids []kernel.UUID) ([]*vendor.Vendor, error)

	// GetAllInCity retrieves every vendor serving the given city.
	// City comparison is case-insensitive.
	GetAllInCity(ctx context.Context, city string) ([]*vendor.Vendor, error)
}
