package commands

import (
	"errors"

	"booking/internal/core/domain/model/kernel"
	"booking/internal/core/domain/model/order"
	"booking/internal/core/ports"
	"booking/internal/pkg/errs"
	"booking/internal/pkg/guard"
)

var (
	ErrPlaceOrderCommandIsNotConstructed = errors.New(
		"PlaceOrderCommand must be created via NewPlaceOrderCommand constructor",
	)
)

// PlaceOrderCommand represents a checkout request: an immutable snapshot of
// cart line items (already priced, discounts applied at add-to-cart time),
// the payment gateway callback to verify, and the shipping/event details.
type PlaceOrderCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	customerID kernel.UUID
	city       string
	lineItems  []order.LineItem
	fees       kernel.Money
	payment    ports.PaymentPayload

	guard guard.ConstructorGuard
}

// NewPlaceOrderCommand creates a checkout command. The line items must be a
// non-empty set of constructed snapshots; ids must be valid.
func NewPlaceOrderCommand(
	orderID kernel.UUID,
	customerID kernel.UUID,
	city string,
	lineItems []order.LineItem,
	fees kernel.Money,
	payment ports.PaymentPayload,
) (PlaceOrderCommand, error) {
	cmd := PlaceOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setCustomerID(customerID),
		cmd.setCity(city),
		cmd.setLineItems(lineItems),
	); err != nil {
		return PlaceOrderCommand{}, err
	}

	cmd.fees = fees
	cmd.payment = payment
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c PlaceOrderCommand) Validate() error {
	return c.guard.Validate(ErrPlaceOrderCommandIsNotConstructed)
}

// OrderID returns the identifier assigned to the new order.
func (c PlaceOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// CustomerID returns the customer placing the order.
func (c PlaceOrderCommand) CustomerID() kernel.UUID {
	return c.customerID
}

// City returns the shipping/event city.
func (c PlaceOrderCommand) City() string {
	return c.city
}

// LineItems returns the cart snapshot.
func (c PlaceOrderCommand) LineItems() []order.LineItem {
	items := make([]order.LineItem, len(c.lineItems))
	copy(items, c.lineItems)
	return items
}

// Fees returns additional charges on top of the line item sum.
func (c PlaceOrderCommand) Fees() kernel.Money {
	return c.fees
}

// Payment returns the gateway callback payload awaiting verification.
func (c PlaceOrderCommand) Payment() ports.PaymentPayload {
	return c.payment
}

func (c *PlaceOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *PlaceOrderCommand) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}
	c.customerID = customerID
	return nil
}

func (c *PlaceOrderCommand) setCity(city string) error {
	if city == "" {
		return errs.NewValueIsRequiredError("city")
	}
	c.city = city
	return nil
}

func (c *PlaceOrderCommand) setLineItems(lineItems []order.LineItem) error {
	if len(lineItems) == 0 {
		return errs.NewValueIsRequiredError("line items")
	}
	for _, item := range lineItems {
		if err := item.Validate(); err != nil {
			return err
		}
	}

	c.lineItems = make([]order.LineItem, len(lineItems))
	copy(c.lineItems, lineItems)
	return nil
}
