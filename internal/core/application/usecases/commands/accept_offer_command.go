package commands

import (
	"errors"

	"booking/internal/core/domain/model/kernel"
	"booking/internal/pkg/guard"
)

var (
	ErrAcceptOfferCommandIsNotConstructed = errors.New(
		"AcceptOfferCommand must be created via NewAcceptOfferCommand constructor",
	)
)

// AcceptOutcome is the result of one vendor's attempt to claim a broadcast.
type AcceptOutcome int

const (
	// OutcomeUnknown represents an invalid or undefined outcome.
	OutcomeUnknown AcceptOutcome = iota

	// OutcomeAwarded means this vendor won the order. A repeated accept from
	// the winning vendor also reports Awarded, keeping double-taps harmless.
	OutcomeAwarded

	// OutcomeAlreadyTaken means another vendor holds the order. This is an
	// expected result of losing the race, not a system error.
	OutcomeAlreadyTaken

	// OutcomeOfferExpired means the vendor holds no open offer for the order:
	// it was never included, was dropped by a re-broadcast, or the broadcast
	// was withdrawn.
	OutcomeOfferExpired
)

// String returns the wire name of the outcome.
func (o AcceptOutcome) String() string {
	switch o {
	case OutcomeAwarded:
		return "awarded"
	case OutcomeAlreadyTaken:
		return "already_taken"
	case OutcomeOfferExpired:
		return "offer_expired"
	default:
		return "unknown"
	}
}

// AcceptOfferCommand represents one vendor's attempt to claim a broadcast
// order. The (orderID, vendorID) pair comes straight from the accept link;
// possession of the link is the vendor's only credential.
type AcceptOfferCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	vendorID kernel.UUID

	guard guard.ConstructorGuard
}

// NewAcceptOfferCommand creates an accept command for the given order and vendor.
func NewAcceptOfferCommand(orderID, vendorID kernel.UUID) (AcceptOfferCommand, error) {
	cmd := AcceptOfferCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setVendorID(vendorID),
	); err != nil {
		return AcceptOfferCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AcceptOfferCommand) Validate() error {
	return c.guard.Validate(ErrAcceptOfferCommandIsNotConstructed)
}

// OrderID returns the order being claimed.
func (c AcceptOfferCommand) OrderID() kernel.UUID {
	return c.orderID
}

// VendorID returns the claiming vendor.
func (c AcceptOfferCommand) VendorID() kernel.UUID {
	return c.vendorID
}

func (c *AcceptOfferCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *AcceptOfferCommand) setVendorID(vendorID kernel.UUID) error {
	if err := vendorID.Validate(); err != nil {
		return err
	}
	c.vendorID = vendorID
	return nil
}
