// Package vendorrepo persists the vendor directory read by the assignment
// flow. Vendors map to a single flat table.
package vendorrepo

import (
	"booking/internal/core/domain/model/kernel"
	"booking/internal/core/domain/model/vendor"

	"github.com/google/uuid"
)

// VendorDTO is the database representation of a vendor.
type VendorDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name           string
	City           string `gorm:"index"`
	ContactChannel string
}

// TableName overrides GORM's default naming to use "vendors".
func (VendorDTO) TableName() string {
	return "vendors"
}

func fromDomain(aggregate *vendor.Vendor) VendorDTO {
	return VendorDTO{
		ID:             aggregate.ID().Bytes(),
		Name:           aggregate.Name(),
		City:           aggregate.City(),
		ContactChannel: aggregate.ContactChannel(),
	}
}

func toDomain(dto VendorDTO) (*vendor.Vendor, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return vendor.NewVendor(id, dto.Name, dto.City, dto.ContactChannel)
}
