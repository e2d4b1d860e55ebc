package commands

import (
	"errors"

	"booking/internal/core/domain/model/kernel"
	"booking/internal/pkg/errs"
	"booking/internal/pkg/guard"
)

var (
	ErrBroadcastOrderCommandIsNotConstructed = errors.New(
		"BroadcastOrderCommand must be created via NewBroadcastOrderCommand constructor",
	)
)

// BroadcastOrderCommand represents an operator's request to offer an order to
// a set of vendors simultaneously. Broadcasting again while a broadcast is
// open replaces the set.
type BroadcastOrderCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	vendorIDs []kernel.UUID

	guard guard.ConstructorGuard
}

// NewBroadcastOrderCommand creates a broadcast command for a non-empty vendor set.
func NewBroadcastOrderCommand(orderID kernel.UUID, vendorIDs []kernel.UUID) (BroadcastOrderCommand, error) {
	cmd := BroadcastOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setVendorIDs(vendorIDs),
	); err != nil {
		return BroadcastOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c BroadcastOrderCommand) Validate() error {
	return c.guard.Validate(ErrBroadcastOrderCommandIsNotConstructed)
}

// OrderID returns the order to broadcast.
func (c BroadcastOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// VendorIDs returns the vendors to offer the order to.
func (c BroadcastOrderCommand) VendorIDs() []kernel.UUID {
	ids := make([]kernel.UUID, len(c.vendorIDs))
	copy(ids, c.vendorIDs)
	return ids
}

func (c *BroadcastOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *BroadcastOrderCommand) setVendorIDs(vendorIDs []kernel.UUID) error {
	if len(vendorIDs) == 0 {
		return errs.NewValueIsRequiredError("vendor ids")
	}
	for _, id := range vendorIDs {
		if err := id.Validate(); err != nil {
			return err
		}
	}

	c.vendorIDs = make([]kernel.UUID, len(vendorIDs))
	copy(c.vendorIDs, vendorIDs)
	return nil
}
