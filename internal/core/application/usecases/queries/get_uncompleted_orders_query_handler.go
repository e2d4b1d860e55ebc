package queries

import (
	"context"
	"time"

	"booking/internal/core/domain/model/kernel"
	"booking/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetUncompletedOrdersQueryHandler reads the dashboard list with raw SQL,
// skipping aggregate reconstruction entirely.
type GetUncompletedOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetUncompletedOrdersQueryHandler creates a handler for dashboard queries.
func NewGetUncompletedOrdersQueryHandler(db *gorm.DB) GetUncompletedOrdersQueryHandler {
	return GetUncompletedOrdersQueryHandler{db: db}
}

// Handle retrieves all orders outside the terminal statuses, oldest first.
func (h GetUncompletedOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetUncompletedOrdersQuery,
) ([]GetUncompletedOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetUncompletedOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			city,
			status,
			total_amount,
			amount_paid,
			remaining_amount,
			assigned_vendor_id,
			created_at
		FROM orders
		WHERE status NOT IN (?, ?)
		ORDER BY created_at
	`, order.Completed, order.Cancelled).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id               uuid.UUID
			city             string
			status           int
			totalPaise       int64
			paidPaise        int64
			remainingPaise   int64
			assignedVendorID *uuid.UUID
			createdAt        time.Time
		)

		if err = rows.Scan(
			&id, &city, &status,
			&totalPaise, &paidPaise, &remainingPaise,
			&assignedVendorID, &createdAt,
		); err != nil {
			return nil, err
		}

		resp, buildErr := buildUncompletedOrderResponse(
			id, city, status, totalPaise, paidPaise, remainingPaise, assignedVendorID, createdAt,
		)
		if buildErr != nil {
			return nil, buildErr
		}
		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

func buildUncompletedOrderResponse(
	id uuid.UUID,
	city string,
	status int,
	totalPaise, paidPaise, remainingPaise int64,
	assignedVendorID *uuid.UUID,
	createdAt time.Time,
) (GetUncompletedOrdersQueryResponse, error) {
	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetUncompletedOrdersQueryResponse{}, err
	}

	var vendorID *kernel.UUID
	if assignedVendorID != nil {
		vID, vErr := kernel.UUIDFromBytes((*assignedVendorID)[:])
		if vErr != nil {
			return GetUncompletedOrdersQueryResponse{}, vErr
		}
		vendorID = &vID
	}

	total, err := kernel.NewMoney(totalPaise)
	if err != nil {
		return GetUncompletedOrdersQueryResponse{}, err
	}
	paid, err := kernel.NewMoney(paidPaise)
	if err != nil {
		return GetUncompletedOrdersQueryResponse{}, err
	}
	remaining, err := kernel.NewMoney(remainingPaise)
	if err != nil {
		return GetUncompletedOrdersQueryResponse{}, err
	}

	return GetUncompletedOrdersQueryResponse{
		ID:               orderID,
		City:             city,
		Status:           order.Status(status),
		TotalAmount:      total,
		AmountPaid:       paid,
		RemainingAmount:  remaining,
		AssignedVendorID: vendorID,
		CreatedAt:        createdAt,
	}, nil
}
