package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"booking/internal/core/domain/model/kernel"
	"booking/internal/core/domain/model/order"
	"booking/internal/pkg/cache"
	"booking/internal/pkg/errs"

	"gorm.io/gorm"
)

const vendorDetailsCacheOp = "vendor_order_details"

// GetVendorOrderDetailsQueryHandler serves the vendor confirmation screen.
// The projection is cached in redis with a short TTL: every vendor in a
// broadcast opens the same link within minutes of dispatch, and the payload
// only changes when the order itself does. Cache failures degrade to a
// database read, never to an error.
type GetVendorOrderDetailsQueryHandler struct {
	db     *gorm.DB
	cache  cache.Cache
	ttl    time.Duration
	logger *slog.Logger
}

// NewGetVendorOrderDetailsQueryHandler creates a handler for vendor detail queries.
func NewGetVendorOrderDetailsQueryHandler(
	db *gorm.DB,
	c cache.Cache,
	ttl time.Duration,
	logger *slog.Logger,
) GetVendorOrderDetailsQueryHandler {
	return GetVendorOrderDetailsQueryHandler{
		db:     db,
		cache:  c,
		ttl:    ttl,
		logger: logger.With("component", "vendor_details_query"),
	}
}

// Handle retrieves the vendor-facing order view.
//
// A vendor that was never offered the order and does not hold it gets
// errs.ObjectNotFoundError; the projection does not reveal that the order
// exists to vendors outside its broadcast.
func (h GetVendorOrderDetailsQueryHandler) Handle(
	ctx context.Context,
	query GetVendorOrderDetailsQuery,
) (GetVendorOrderDetailsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetVendorOrderDetailsQueryResponse{}, err
	}

	cacheKey := h.cache.GenerateKey(vendorDetailsCacheOp,
		query.OrderID().String()+":"+query.VendorID().String())

	if cached := h.readCache(ctx, cacheKey); cached != nil {
		return *cached, nil
	}

	resp, err := h.load(ctx, query)
	if err != nil {
		return GetVendorOrderDetailsQueryResponse{}, err
	}

	h.writeCache(ctx, cacheKey, resp)
	return resp, nil
}

func (h GetVendorOrderDetailsQueryHandler) load(
	ctx context.Context,
	query GetVendorOrderDetailsQuery,
) (GetVendorOrderDetailsQueryResponse, error) {
	var (
		city       string
		status     int
		totalPaise int64
		assigned   bool
		offered    bool
	)

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			o.city,
			o.status,
			o.total_amount,
			COALESCE(o.assigned_vendor_id = ?, FALSE) AS assigned,
			EXISTS (
				SELECT 1 FROM broadcast_offers bo
				WHERE bo.order_id = o.id AND bo.vendor_id = ?
			) AS offered
		FROM orders o
		WHERE o.id = ?
	`, query.VendorID().Bytes(), query.VendorID().Bytes(), query.OrderID().Bytes()).Row()

	if err := row.Scan(&city, &status, &totalPaise, &assigned, &offered); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetVendorOrderDetailsQueryResponse{},
				errs.NewObjectNotFoundError("order", query.OrderID().String())
		}
		return GetVendorOrderDetailsQueryResponse{}, err
	}

	// A vendor outside the broadcast reads the same as an unknown order.

	if !assigned && !offered {
		return GetVendorOrderDetailsQueryResponse{},
			errs.NewObjectNotFoundError("order", query.OrderID().String())
	}

	total, err := kernel.NewMoney(totalPaise)
	if err != nil {
		return GetVendorOrderDetailsQueryResponse{}, err
	}

	lineItems, err := h.loadLineItems(ctx, query.OrderID())
	if err != nil {
		return GetVendorOrderDetailsQueryResponse{}, err
	}

	return GetVendorOrderDetailsQueryResponse{
		OrderID:          query.OrderID().String(),
		City:             city,
		Status:           order.Status(status).String(),
		TotalAmount:      total.String(),
		LineItems:        lineItems,
		AssignedToVendor: assigned,
		OfferOpen:        offered && order.Status(status) == order.Broadcasting,
	}, nil
}

func (h GetVendorOrderDetailsQueryHandler) loadLineItems(
	ctx context.Context,
	orderID kernel.UUID,
) ([]VendorLineItemView, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			product_name,
			quantity,
			event_date,
			event_time_slot,
			note
		FROM order_line_items
		WHERE order_id = ?
		ORDER BY position
	`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]VendorLineItemView, 0)
	for rows.Next() {
		var item VendorLineItemView
		if err = rows.Scan(
			&item.ProductName,
			&item.Quantity,
			&item.EventDate,
			&item.EventTimeSlot,
			&item.Note,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (h GetVendorOrderDetailsQueryHandler) readCache(
	ctx context.Context,
	key string,
) *GetVendorOrderDetailsQueryResponse {
	raw, err := h.cache.Get(ctx, key)
	if err != nil {
		h.logger.WarnContext(ctx, "vendor details cache read failed", "key", key, "error", err)
		return nil
	}
	if raw == "" {
		return nil
	}

	var resp GetVendorOrderDetailsQueryResponse
	if err = json.Unmarshal([]byte(raw), &resp); err != nil {
		h.logger.WarnContext(ctx, "vendor details cache entry is corrupt", "key", key, "error", err)
		return nil
	}
	return &resp
}

func (h GetVendorOrderDetailsQueryHandler) writeCache(
	ctx context.Context,
	key string,
	resp GetVendorOrderDetailsQueryResponse,
) {
	raw, err := json.Marshal(resp)
	if err != nil {
		h.logger.WarnContext(ctx, "vendor details cache marshal failed", "key", key, "error", err)
		return
	}
	if err = h.cache.Set(ctx, key, string(raw), h.ttl); err != nil {
		h.logger.WarnContext(ctx, "vendor details cache write failed", "key", key, "error", err)
	}
}
