// Package orderrepo persists order aggregates. An order maps to three
// tables: the orders row, its immutable order_line_items rows, and the
// broadcast_offers rows that are the durable form of the open offer set.
package orderrepo

import (
	"time"

	"booking/internal/core/domain/model/kernel"
	"booking/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is the database representation of an order aggregate.
type OrderDTO struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CustomerID       uuid.UUID  `gorm:"type:uuid;index"`
	City             string     `gorm:"index"`
	TotalAmount      int64      // paise
	AmountPaid       int64      // paise
	RemainingAmount  int64      // paise
	Status           int        `gorm:"index"`
	AssignedVendorID *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	LineItems []LineItemDTO       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Offers    []BroadcastOfferDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName overrides GORM's default naming to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// LineItemDTO is one snapshot line of an order. Line items never change
// after checkout; position preserves the cart's ordering.
type LineItemDTO struct {
	OrderID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Position      int       `gorm:"primaryKey"`
	ProductID     uuid.UUID `gorm:"type:uuid"`
	ProductName   string
	Quantity      int
	UnitPrice     int64 // paise
	EventDate     time.Time
	EventTimeSlot string
	Note          string
}

// TableName overrides GORM's default naming to use "order_line_items".
func (LineItemDTO) TableName() string {
	return "order_line_items"
}

// BroadcastOfferDTO is one open offer row. The set of rows for an order is
// the broadcast set; rows are replaced wholesale on every write.
type BroadcastOfferDTO struct {
	OrderID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	VendorID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
}

// TableName overrides GORM's default naming to use "broadcast_offers".
func (BroadcastOfferDTO) TableName() string {
	return "broadcast_offers"
}

func fromDomain(aggregate *order.Order) OrderDTO {
	var vendorID *uuid.UUID
	if id := aggregate.AssignedVendor(); id != nil {
		raw := id.Bytes()
		vendorID = &raw
	}

	lineItems := make([]LineItemDTO, 0, len(aggregate.LineItems()))
	for i, item := range aggregate.LineItems() {
		lineItems = append(lineItems, LineItemDTO{
			OrderID:       aggregate.ID().Bytes(),
			Position:      i,
			ProductID:     item.ProductID().Bytes(),
			ProductName:   item.ProductName(),
			Quantity:      item.Quantity(),
			UnitPrice:     item.UnitPrice().Paise(),
			EventDate:     item.EventDate(),
			EventTimeSlot: item.EventTimeSlot(),
			Note:          item.Note(),
		})
	}

	offers := make([]BroadcastOfferDTO, 0, len(aggregate.BroadcastSet()))
	for _, id := range aggregate.BroadcastSet() {
		offers = append(offers, BroadcastOfferDTO{
			OrderID:  aggregate.ID().Bytes(),
			VendorID: id.Bytes(),
		})
	}

	return OrderDTO{
		ID:               aggregate.ID().Bytes(),
		CustomerID:       aggregate.CustomerID().Bytes(),
		City:             aggregate.City(),
		TotalAmount:      aggregate.TotalAmount().Paise(),
		AmountPaid:       aggregate.AmountPaid().Paise(),
		RemainingAmount:  aggregate.RemainingAmount().Paise(),
		Status:           int(aggregate.Status()),
		AssignedVendorID: vendorID,
		CreatedAt:        aggregate.CreatedAt(),
		UpdatedAt:        aggregate.UpdatedAt(),
		LineItems:        lineItems,
		Offers:           offers,
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	var vendorID *kernel.UUID
	if dto.AssignedVendorID != nil {
		vID, vErr := kernel.UUIDFromBytes((*dto.AssignedVendorID)[:])
		if vErr != nil {
			return nil, vErr
		}
		vendorID = &vID
	}

	lineItems := make([]order.LineItem, 0, len(dto.LineItems))
	for _, itemDTO := range dto.LineItems {
		item, itemErr := lineItemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		lineItems = append(lineItems, item)
	}

	broadcastSet := make([]kernel.UUID, 0, len(dto.Offers))
	for _, offer := range dto.Offers {
		offerVendorID, offerErr := kernel.UUIDFromBytes(offer.VendorID[:])
		if offerErr != nil {
			return nil, offerErr
		}
		broadcastSet = append(broadcastSet, offerVendorID)
	}

	total, err := kernel.NewMoney(dto.TotalAmount)
	if err != nil {
		return nil, err
	}
	paid, err := kernel.NewMoney(dto.AmountPaid)
	if err != nil {
		return nil, err
	}
	remaining, err := kernel.NewMoney(dto.RemainingAmount)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(
		id, customerID, dto.City, lineItems,
		total, paid, remaining,
		order.Status(dto.Status), vendorID, broadcastSet,
		dto.CreatedAt, dto.UpdatedAt,
	)
}

func lineItemToDomain(dto LineItemDTO) (order.LineItem, error) {
	productID, err := kernel.UUIDFromBytes(dto.ProductID[:])
	if err != nil {
		return order.LineItem{}, err
	}

	unitPrice, err := kernel.NewMoney(dto.UnitPrice)
	if err != nil {
		return order.LineItem{}, err
	}

	return order.NewLineItem(
		productID, dto.ProductName, dto.Quantity,
		unitPrice, dto.EventDate, dto.EventTimeSlot, dto.Note,
	)
}
