package orderrepo

import (
	"context"
	"errors"

	"booking/internal/core/domain/model/kernel"
	"booking/internal/core/domain/model/order"
	"booking/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
//
// The concurrency contract lives here: GetForUpdate locks the orders row
// (SELECT ... FOR UPDATE) and UpdateIfStatus writes with a status guard in
// the WHERE clause. Together they make every order mutation a serialized
// compare-and-set, which is what the at-most-one-winner accept guarantee
// rests on.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker records aggregates touched within the unit of work.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add persists a new order with its line items and any open offers.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate retrieves an order by ID holding a row-level lock until the
// surrounding transaction ends. Concurrent mutators of the same order queue
// up behind this lock.
func (r *GormOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.get(ctx, id, true)
}

func (r *GormOrderRepository) get(ctx context.Context, id kernel.UUID, forUpdate bool) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	tx := r.db.WithContext(ctx).
		Preload("LineItems", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Offers")
	if forUpdate {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var dto OrderDTO
	if err := tx.First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// UpdateIfStatus persists the aggregate's mutable fields only when the
// stored status still equals expected. The guard rides in the WHERE clause,
// so the check and the write are one statement; zero affected rows means a
// concurrent writer got there first and a VersionIsInvalidError is returned.
// Line items are immutable and never rewritten; offer rows are replaced to
// mirror the aggregate's broadcast set.
func (r *GormOrderRepository) UpdateIfStatus(
	ctx context.Context,
	aggregate *order.Order,
	expected order.Status,
) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if err := expected.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)

	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ? AND status = ?", dto.ID, int(expected)).
		Updates(map[string]any{
			"status":             dto.Status,
			"amount_paid":        dto.AmountPaid,
			"remaining_amount":   dto.RemainingAmount,
			"assigned_vendor_id": dto.AssignedVendorID,
			"updated_at":         dto.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewVersionIsInvalidErrorWithCause("order status")
	}

	if err := r.replaceOffers(ctx, dto); err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormOrderRepository) replaceOffers(ctx context.Context, dto OrderDTO) error {
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", dto.ID).
		Delete(&BroadcastOfferDTO{}).Error; err != nil {
		return err
	}

	if len(dto.Offers) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&dto.Offers).Error
}

// GetAllInStatus retrieves all orders in the given status, oldest update first.
func (r *GormOrderRepository) GetAllInStatus(
	ctx context.Context,
	status order.Status,
) ([]*order.Order, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}

	var dtos []OrderDTO
	if err := r.db.WithContext(ctx).
		Preload("LineItems", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Offers").
		Order("updated_at").
		Find(&dtos, "status = ?", int(status)).Error; err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		aggregate, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, aggregate)
	}

	return orders, nil
}

// CountCompletedByVendor counts completed orders awarded to the vendor.
func (r *GormOrderRepository) CountCompletedByVendor(
	ctx context.Context,
	vendorID kernel.UUID,
) (int64, error) {
	if err := vendorID.Validate(); err != nil {
		return 0, err
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("status = ? AND assigned_vendor_id = ?", int(order.Completed), vendorID.Bytes()).
		Count(&count).Error
	return count, err
}
