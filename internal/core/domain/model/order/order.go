package order

import (
	"errors"
	"fmt"
	"time"

	"booking/internal/core/domain/model/kernel"
	"booking/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

	// ErrOfferExpired is returned when a vendor attempts to act on an offer it
	// does not currently hold, either because it was dropped by a re-broadcast
	// or was never included in the broadcast set.
	ErrOfferExpired = errors.New("vendor does not hold an open offer for this order")

	// ErrVendorAlreadyAssigned is returned when a broadcast is requested for an
	// order that already has an assigned vendor.
	ErrVendorAlreadyAssigned = errors.New("order already has an assigned vendor")
)

// Order is the aggregate root governing one booking from checkout through
// fulfillment. It is append-mostly: after creation only the status, the
// payment bookkeeping, the broadcast set, and the vendor assignment mutate,
// and every mutation goes through the Status state machine.
//
// Invariants held at all times:
//   - amountPaid + remainingAmount == totalAmount
//   - status == Broadcasting implies a non-empty broadcast set and no assigned vendor
//   - an assigned vendor implies an empty broadcast set
type Order struct {
	id         kernel.UUID
	customerID kernel.UUID

	// city is the shipping/event city, used for the soft vendor-city check.
	city string

	lineItems []LineItem

	totalAmount     kernel.Money
	amountPaid      kernel.Money
	remainingAmount kernel.Money

	status Status

	// assignedVendorID is set exactly once, by acceptance or self-assignment.
	// Cancellation leaves it in place as historical record.
	assignedVendorID *kernel.UUID

	// broadcastSet holds the vendors with an open offer. Non-empty only while
	// the order is Broadcasting.
	broadcastSet []kernel.UUID

	createdAt time.Time
	updatedAt time.Time

	isConstructed bool
}

// NewOrder creates an order at checkout time. The line items are immutable
// snapshots already priced by the cart; fees are added on top of their sum.
// The initial status follows the payment: Paid when nothing remains,
// Pending when nothing was paid, PartialPaid otherwise.
func NewOrder(
	id kernel.UUID,
	customerID kernel.UUID,
	city string,
	lineItems []LineItem,
	fees kernel.Money,
	amountPaid kernel.Money,
) (*Order, error) {
	o := &Order{isConstructed: true}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(customerID),
		o.setCity(city),
		o.setLineItems(lineItems),
	); err != nil {
		return nil, err
	}

	total := fees
	for _, item := range o.lineItems {
		lineTotal, err := item.Total()
		if err != nil {
			return nil, err
		}
		total = total.Add(lineTotal)
	}

	remaining, err := total.Sub(amountPaid)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("amount paid",
			fmt.Errorf("payment %s exceeds order total %s", amountPaid, total))
	}

	o.totalAmount = total
	o.amountPaid = amountPaid
	o.remainingAmount = remaining

	switch {
	case remaining.IsZero():
		o.status = Paid
	case amountPaid.IsZero():
		o.status = Pending
	default:
		o.status = PartialPaid
	}

	now := time.Now().UTC()
	o.createdAt = now
	o.updatedAt = now

	return o, nil
}

// RestoreOrder reconstructs an order from persistence, re-checking the
// aggregate invariants so corrupted rows never become live aggregates.
func RestoreOrder(
	id kernel.UUID,
	customerID kernel.UUID,
	city string,
	lineItems []LineItem,
	totalAmount kernel.Money,
	amountPaid kernel.Money,
	remainingAmount kernel.Money,
	status Status,
	assignedVendorID *kernel.UUID,
	broadcastSet []kernel.UUID,
	createdAt time.Time,
	updatedAt time.Time,
) (*Order, error) {
	o := &Order{isConstructed: true}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(customerID),
		o.setCity(city),
		o.setLineItems(lineItems),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	if !amountPaid.Add(remainingAmount).IsEqual(totalAmount) {
		return nil, errs.NewValueIsInvalidErrorWithCause("order amounts",
			fmt.Errorf("paid %s plus remaining %s does not equal total %s",
				amountPaid, remainingAmount, totalAmount))
	}

	if assignedVendorID != nil {
		if err := assignedVendorID.Validate(); err != nil {
			return nil, err
		}
		if status == Broadcasting {
			return nil, errs.NewValueIsInvalidErrorWithCause("order status",
				errors.New("broadcasting order cannot have an assigned vendor"))
		}
	}

	if status == Broadcasting && len(broadcastSet) == 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("order status",
			errors.New("broadcasting order must have a non-empty broadcast set"))
	}
	if status != Broadcasting && len(broadcastSet) > 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("order status",
			fmt.Errorf("order in status %q cannot hold open offers", status))
	}

	o.totalAmount = totalAmount
	o.amountPaid = amountPaid
	o.remainingAmount = remainingAmount
	o.status = status
	o.assignedVendorID = assignedVendorID
	o.broadcastSet = dedupeVendors(broadcastSet)
	o.createdAt = createdAt
	o.updatedAt = updatedAt

	return o, nil
}

// Validate ensures the Order was created through a constructor.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by identity.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// CustomerID returns the customer who placed the order.
func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

// City returns the shipping/event city.
func (o *Order) City() string {
	return o.city
}

// LineItems returns a copy of the line item snapshots.
func (o *Order) LineItems() []LineItem {
	items := make([]LineItem, len(o.lineItems))
	copy(items, o.lineItems)
	return items
}

// TotalAmount returns the order total fixed at creation.
func (o *Order) TotalAmount() kernel.Money {
	return o.totalAmount
}

// AmountPaid returns the amount received so far.
func (o *Order) AmountPaid() kernel.Money {
	return o.amountPaid
}

// RemainingAmount returns the outstanding balance.
func (o *Order) RemainingAmount() kernel.Money {
	return o.remainingAmount
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// AssignedVendor returns the awarded vendor's ID, or nil while unassigned.
func (o *Order) AssignedVendor() *kernel.UUID {
	return o.assignedVendorID
}

// BroadcastSet returns a copy of the vendors currently holding an open offer.
func (o *Order) BroadcastSet() []kernel.UUID {
	set := make([]kernel.UUID, len(o.broadcastSet))
	copy(set, o.broadcastSet)
	return set
}

// IsOffered reports whether the vendor currently holds an open offer.
func (o *Order) IsOffered(vendorID kernel.UUID) bool {
	for _, id := range o.broadcastSet {
		if id.IsEqual(vendorID) {
			return true
		}
	}
	return false
}

// CreatedAt returns the creation timestamp.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// UpdatedAt returns the last mutation timestamp.
func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// Broadcast offers the order to the given set of vendors simultaneously.
//
// Entering Broadcasting requires that no vendor is assigned and that the
// current status permits it. Calling Broadcast while already Broadcasting is
// allowed and replaces the set (idempotent overwrite): offers held by vendors
// absent from the new set are thereby revoked.
func (o *Order) Broadcast(vendorIDs []kernel.UUID) error {
	if len(vendorIDs) == 0 {
		return errs.NewValueIsRequiredError("broadcast vendor set")
	}
	for _, id := range vendorIDs {
		if err := id.Validate(); err != nil {
			return err
		}
	}

	if o.assignedVendorID != nil {
		return ErrVendorAlreadyAssigned
	}

	if o.status != Broadcasting {
		newStatus, err := o.status.Transition(Broadcasting)
		if err != nil {
			return err
		}
		o.status = newStatus
	}

	o.broadcastSet = dedupeVendors(vendorIDs)
	o.touch()
	return nil
}

// Accept awards the order to the given vendor and closes the race: the status
// becomes InProgress, the vendor is recorded as the winner, and the broadcast
// set is cleared so every other open offer dies with it.
//
// This method expresses the decision on the in-memory aggregate only. The
// indivisibility of check-and-write under concurrent accepts is the
// responsibility of the storage layer's conditional update.
func (o *Order) Accept(vendorID kernel.UUID) error {
	if err := vendorID.Validate(); err != nil {
		return err
	}

	if !o.IsOffered(vendorID) {
		return ErrOfferExpired
	}

	newStatus, err := o.status.Transition(InProgress)
	if err != nil {
		return err
	}

	o.status = newStatus
	o.assignedVendorID = &vendorID
	o.broadcastSet = nil
	o.touch()
	return nil
}

// SelfAssign lets the operator hand the order directly to a vendor, bypassing
// the broadcast protocol. Permitted from PartialPaid, Paid, and Broadcasting;
// a broadcast in flight is withdrawn and its open offers revoked.
func (o *Order) SelfAssign(vendorID kernel.UUID) error {
	if err := vendorID.Validate(); err != nil {
		return err
	}

	if o.assignedVendorID != nil && !o.assignedVendorID.IsEqual(vendorID) {
		return ErrVendorAlreadyAssigned
	}

	newStatus, err := o.status.Transition(InProgress)
	if err != nil {
		return err
	}

	o.status = newStatus
	o.assignedVendorID = &vendorID
	o.broadcastSet = nil
	o.touch()
	return nil
}

// RecordPayment applies a received payment: amountPaid grows, remainingAmount
// shrinks, and the status moves to Paid once nothing remains. Only orders
// still collecting money (Pending, PartialPaid) accept payments.
func (o *Order) RecordPayment(amount kernel.Money) error {
	if amount.IsZero() {
		return errs.NewValueIsRequiredError("payment amount")
	}
	if o.status != Pending && o.status != PartialPaid {
		return NewInvalidTransitionError(o.status, Paid)
	}

	remaining, err := o.remainingAmount.Sub(amount)
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("payment amount",
			fmt.Errorf("payment %s exceeds remaining balance %s", amount, o.remainingAmount))
	}

	target := PartialPaid
	if remaining.IsZero() {
		target = Paid
	}

	if o.status != target {
		newStatus, transitionErr := o.status.Transition(target)
		if transitionErr != nil {
			return transitionErr
		}
		o.status = newStatus
	}

	o.amountPaid = o.amountPaid.Add(amount)
	o.remainingAmount = remaining
	o.touch()
	return nil
}

// Complete marks the job fulfilled. Only an InProgress order can complete.
func (o *Order) Complete() error {
	newStatus, err := o.status.Transition(Completed)
	if err != nil {
		return err
	}

	o.status = newStatus
	o.touch()
	return nil
}

// Cancel terminates the order. An in-flight broadcast is withdrawn and its
// offers revoked; an existing assignment stays as historical record.
func (o *Order) Cancel() error {
	newStatus, err := o.status.Transition(Cancelled)
	if err != nil {
		return err
	}

	o.status = newStatus
	o.broadcastSet = nil
	o.touch()
	return nil
}

func (o *Order) touch() {
	o.updatedAt = time.Now().UTC()
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}
	o.customerID = customerID
	return nil
}

func (o *Order) setCity(city string) error {
	if city == "" {
		return errs.NewValueIsRequiredError("city")
	}
	o.city = city
	return nil
}

func (o *Order) setLineItems(lineItems []LineItem) error {
	if len(lineItems) == 0 {
		return errs.NewValueIsRequiredError("line items")
	}
	for _, item := range lineItems {
		if err := item.Validate(); err != nil {
			return err
		}
	}

	o.lineItems = make([]LineItem, len(lineItems))
	copy(o.lineItems, lineItems)
	return nil
}

// dedupeVendors preserves order while dropping duplicate vendor references.
func dedupeVendors(vendorIDs []kernel.UUID) []kernel.UUID {
	if len(vendorIDs) == 0 {
		return nil
	}

	seen := make(map[kernel.UUID]struct{}, len(vendorIDs))
	result := make([]kernel.UUID, 0, len(vendorIDs))
	for _, id := range vendorIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
