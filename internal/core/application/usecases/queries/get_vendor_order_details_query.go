package queries

import (
	"errors"
	"time"

	"booking/internal/core/domain/model/kernel"
	"booking/internal/pkg/guard"
)

var (
	ErrGetVendorOrderDetailsQueryIsNotConstructed = errors.New(
		"GetVendorOrderDetailsQuery must be created via NewGetVendorOrderDetailsQuery constructor",
	)
)

// GetVendorOrderDetailsQuery retrieves the vendor-facing view of an order:
// what the vendor sees on the confirmation screen behind the accept link.
// The projection is scoped to the requesting vendor: it carries no customer
// record and nothing about other vendors in the broadcast.
type GetVendorOrderDetailsQuery struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	vendorID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetVendorOrderDetailsQuery creates a vendor details query.
func NewGetVendorOrderDetailsQuery(orderID, vendorID kernel.UUID) (GetVendorOrderDetailsQuery, error) {
	q := GetVendorOrderDetailsQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		q.setOrderID(orderID),
		q.setVendorID(vendorID),
	); err != nil {
		return GetVendorOrderDetailsQuery{}, err
	}

	return q, nil
}

// Validate ensures the query was created through the constructor.
func (q GetVendorOrderDetailsQuery) Validate() error {
	return q.guard.Validate(ErrGetVendorOrderDetailsQueryIsNotConstructed)
}

// OrderID returns the order being viewed.
func (q GetVendorOrderDetailsQuery) OrderID() kernel.UUID {
	return q.orderID
}

// VendorID returns the viewing vendor.
func (q GetVendorOrderDetailsQuery) VendorID() kernel.UUID {
	return q.vendorID
}

func (q *GetVendorOrderDetailsQuery) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	q.orderID = orderID
	return nil
}

func (q *GetVendorOrderDetailsQuery) setVendorID(vendorID kernel.UUID) error {
	if err := vendorID.Validate(); err != nil {
		return err
	}
	q.vendorID = vendorID
	return nil
}

// VendorLineItemView is one decoration job line as the vendor sees it.
type VendorLineItemView struct {
	ProductName   string    `json:"product_name"`
	Quantity      int       `json:"quantity"`
	EventDate     time.Time `json:"event_date"`
	EventTimeSlot string    `json:"event_time_slot"`
	Note          string    `json:"note,omitempty"`
}

// GetVendorOrderDetailsQueryResponse is the vendor confirmation screen
// payload. JSON tags double as the cache serialization format.
type GetVendorOrderDetailsQueryResponse struct {
	OrderID     string               `json:"order_id"`
	City        string               `json:"city"`
	Status      string               `json:"status"`
	TotalAmount string               `json:"total_amount"`
	LineItems   []VendorLineItemView `json:"line_items"`

	// AssignedToVendor is true when the viewing vendor holds the order.
	AssignedToVendor bool `json:"assigned_to_vendor"`

	// OfferOpen is true while the viewing vendor can still accept.
	OfferOpen bool `json:"offer_open"`
}
