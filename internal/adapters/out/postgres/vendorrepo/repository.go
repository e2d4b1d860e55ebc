package vendorrepo

import (
	"context"
	"errors"

	"booking/internal/core/domain/model/kernel"
	"booking/internal/core/domain/model/vendor"
	"booking/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormVendorRepository implements ports.VendorRepository using GORM.
type GormVendorRepository struct {
	db *gorm.DB
}

// NewGormVendorRepository creates a new GORM vendor repository.
func NewGormVendorRepository(db *gorm.DB) *GormVendorRepository {
	return &GormVendorRepository{db: db}
}

// Add persists a new vendor.
func (r *GormVendorRepository) Add(ctx context.Context, aggregate *vendor.Vendor) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Get retrieves a vendor by ID.
func (r *GormVendorRepository) Get(ctx context.Context, id kernel.UUID) (*vendor.Vendor, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto VendorDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("vendor", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByIDs retrieves the vendors for the given ids. Ids without a matching
// vendor are absent from the result; the caller decides whether that is an
// error.
func (r *GormVendorRepository) GetByIDs(ctx context.Context, ids []kernel.UUID) ([]*vendor.Vendor, error) {
	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if err := id.Validate(); err != nil {
			return nil, err
		}
		raw = append(raw, id.Bytes())
	}

	var dtos []VendorDTO
	if err := r.db.WithContext(ctx).Find(&dtos, "id IN ?", raw).Error; err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// GetAllInCity retrieves every vendor serving the given city, matched
// case-insensitively.
func (r *GormVendorRepository) GetAllInCity(ctx context.Context, city string) ([]*vendor.Vendor, error) {
	if city == "" {
		return nil, errs.NewValueIsRequiredError("city")
	}

	var dtos []VendorDTO
	if err := r.db.WithContext(ctx).Find(&dtos, "LOWER(city) = LOWER(?)", city).Error; err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

func toDomainSlice(dtos []VendorDTO) ([]*vendor.Vendor, error) {
	vendors := make([]*vendor.Vendor, 0, len(dtos))
	for _, dto := range dtos {
		v, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		vendors = append(vendors, v)
	}
	return vendors, nil
}
