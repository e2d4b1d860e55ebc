package order

import (
	"errors"
	"fmt"
	"time"

	"booking/internal/core/domain/model/kernel"
	"booking/internal/pkg/errs"
	"booking/internal/pkg/guard"
)

// ErrLineItemIsNotConstructed is returned when a LineItem was not created
// through the NewLineItem constructor.
var ErrLineItemIsNotConstructed = errors.New("LineItem must be created via NewLineItem constructor")

// LineItem is an immutable snapshot of one booked decoration package.
// The unit price is copied from the cart at order-creation time, post-discount,
// and is never recomputed: historical orders are immune to later catalog changes.
type LineItem struct {
	productID     kernel.UUID
	productName   string
	quantity      int
	unitPrice     kernel.Money
	eventDate     time.Time
	eventTimeSlot string
	note          string

	guard guard.ConstructorGuard
}

// NewLineItem creates a validated line item snapshot.
// Product name and event time slot must be non-empty, quantity positive,
// and the event date set.
func NewLineItem(
	productID kernel.UUID,
	productName string,
	quantity int,
	unitPrice kernel.Money,
	eventDate time.Time,
	eventTimeSlot string,
	note string,
) (LineItem, error) {
	item := LineItem{
		productID:     productID,
		productName:   productName,
		quantity:      quantity,
		unitPrice:     unitPrice,
		eventDate:     eventDate,
		eventTimeSlot: eventTimeSlot,
		note:          note,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		item.validateProduct(),
		item.validateQuantity(),
		item.validateEvent(),
	); err != nil {
		return LineItem{}, err
	}

	return item, nil
}

// Validate ensures the line item was created through NewLineItem.
func (li LineItem) Validate() error {
	return li.guard.Validate(ErrLineItemIsNotConstructed)
}

// ProductID returns the booked product reference.
func (li LineItem) ProductID() kernel.UUID {
	return li.productID
}

// ProductName returns the product name snapshot taken at order time.
func (li LineItem) ProductName() string {
	return li.productName
}

// Quantity returns the booked quantity.
func (li LineItem) Quantity() int {
	return li.quantity
}

// UnitPrice returns the per-unit price snapshot taken at order time.
func (li LineItem) UnitPrice() kernel.Money {
	return li.unitPrice
}

// EventDate returns the date the decoration is booked for.
func (li LineItem) EventDate() time.Time {
	return li.eventDate
}

// EventTimeSlot returns the booked slot within the event date.
func (li LineItem) EventTimeSlot() string {
	return li.eventTimeSlot
}

// Note returns the customer's free-form note, possibly empty.
func (li LineItem) Note() string {
	return li.note
}

// Total returns quantity times the unit price snapshot.
func (li LineItem) Total() (kernel.Money, error) {
	return li.unitPrice.MulInt(li.quantity)
}

func (li LineItem) validateProduct() error {
	if err := li.productID.Validate(); err != nil {
		return err
	}
	if li.productName == "" {
		return errs.NewValueIsRequiredError("product name")
	}
	return nil
}

func (li LineItem) validateQuantity() error {
	if li.quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", li.quantity))
	}
	return nil
}

func (li LineItem) validateEvent() error {
	if li.eventDate.IsZero() {
		return errs.NewValueIsRequiredError("event date")
	}
	if li.eventTimeSlot == "" {
		return errs.NewValueIsRequiredError("event time slot")
	}
	return nil
}
