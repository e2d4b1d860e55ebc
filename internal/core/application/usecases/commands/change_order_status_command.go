package commands

import (
	"errors"
	"fmt"

	"booking/internal/core/domain/model/kernel"
	"booking/internal/core/domain/model/order"
	"booking/internal/pkg/errs"
	"booking/internal/pkg/guard"
)

var (
	ErrChangeOrderStatusCommandIsNotConstructed = errors.New(
		"ChangeOrderStatusCommand must be created via NewChangeOrderStatusCommand constructor",
	)

	// ErrVendorIDIsRequired is returned when a transition to in_progress is
	// requested without naming the vendor to assign.
	ErrVendorIDIsRequired = errors.New("vendor id is required to move an order to in_progress")
)

// ChangeOrderStatusCommand represents an operator-driven direct transition:
// self-assigning a vendor, settling the balance, completing, or cancelling.
// Broadcasting has its own command; the remaining statuses are not valid
// operator targets.
type ChangeOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	target   order.Status
	vendorID *kernel.UUID

	guard guard.ConstructorGuard
}

// NewChangeOrderStatusCommand creates an operator transition command.
// vendorID is required for the in_progress target (self-assignment) and must
// be nil for every other target.
func NewChangeOrderStatusCommand(
	orderID kernel.UUID,
	target order.Status,
	vendorID *kernel.UUID,
) (ChangeOrderStatusCommand, error) {
	cmd := ChangeOrderStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setTarget(target),
		cmd.setVendorID(target, vendorID),
	); err != nil {
		return ChangeOrderStatusCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ChangeOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeOrderStatusCommandIsNotConstructed)
}

// OrderID returns the order to transition.
func (c ChangeOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Target returns the requested status.
func (c ChangeOrderStatusCommand) Target() order.Status {
	return c.target
}

// VendorID returns the vendor to self-assign, or nil.
func (c ChangeOrderStatusCommand) VendorID() *kernel.UUID {
	return c.vendorID
}

func (c *ChangeOrderStatusCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *ChangeOrderStatusCommand) setTarget(target order.Status) error {
	switch target {
	case order.Paid, order.InProgress, order.Completed, order.Cancelled:
		c.target = target
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("target status",
			fmt.Errorf("%q is not an operator-assignable status", target))
	}
}

func (c *ChangeOrderStatusCommand) setVendorID(target order.Status, vendorID *kernel.UUID) error {
	if target == order.InProgress {
		if vendorID == nil {
			return ErrVendorIDIsRequired
		}
		if err := vendorID.Validate(); err != nil {
			return err
		}
		c.vendorID = vendorID
		return nil
	}

	if vendorID != nil {
		return errs.NewValueIsInvalidErrorWithCause("vendor id",
			fmt.Errorf("vendor id is only meaningful for the in_progress target, not %q", target))
	}
	return nil
}
