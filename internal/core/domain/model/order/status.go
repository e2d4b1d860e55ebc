package order

import (
	"errors"
	"fmt"

	"booking/internal/pkg/errs"
)

// ErrInvalidTransition is the unwrap target for InvalidTransitionError.
// Handlers classify state machine denials with errors.Is against it.
var ErrInvalidTransition = errors.New("invalid status transition")

// Status represents the lifecycle state of an order.
//
// State transitions:
//
//	pending      ──> partial_paid, paid, cancelled
//	partial_paid ──> paid, broadcasting, in_progress, cancelled
//	paid         ──> broadcasting, in_progress, cancelled
//	broadcasting ──> in_progress, cancelled   (accept, self-assign, or withdrawal)
//	in_progress  ──> completed, cancelled
//	completed    ──> (terminal)
//	cancelled    ──> (terminal)
//
// Re-broadcasting (broadcasting -> broadcasting) is not a transition: it is an
// idempotent overwrite of the broadcast set handled by Order.Broadcast.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status of an order created without any payment.
	Pending

	// PartialPaid indicates an advance payment was received and a remainder is tracked.
	PartialPaid

	// Paid indicates the order is fully paid and ready for vendor assignment.
	Paid

	// Broadcasting indicates the order is offered to a set of vendors
	// simultaneously and awaits exactly one acceptance.
	Broadcasting

	// InProgress indicates exactly one vendor holds the job.
	InProgress

	// Completed indicates the job was fulfilled. Terminal.
	Completed

	// Cancelled indicates the order was called off. Terminal; an assignment
	// made before cancellation is kept as historical record.
	Cancelled
)

// getStatusStrings returns the wire/storage names for every Status value.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:      "unknown",
		Pending:      "pending",
		PartialPaid:  "partial_paid",
		Paid:         "paid",
		Broadcasting: "broadcasting",
		InProgress:   "in_progress",
		Completed:    "completed",
		Cancelled:    "cancelled",
	}
}

// getTransitions returns the allowed edges of the state machine.
// A status absent from a target list is denied, terminal states have no targets.
func getTransitions() map[Status][]Status {
	return map[Status][]Status{
		Pending:      {PartialPaid, Paid, Cancelled},
		PartialPaid:  {Paid, Broadcasting, InProgress, Cancelled},
		Paid:         {Broadcasting, InProgress, Cancelled},
		Broadcasting: {InProgress, Cancelled},
		InProgress:   {Completed, Cancelled},
		Completed:    {},
		Cancelled:    {},
	}
}

// ParseStatus converts a storage/wire name back to a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if name == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid status", s))
}

// Validate checks that the Status is one of the defined lifecycle states.
func (s Status) Validate() error {
	if s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", int(s)))
	}
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", int(s)))
	}
	return nil
}

// String returns the snake_case name of the status.
// Implements fmt.Stringer; safe on any value, including invalid ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether no further transitions are permitted.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}

// CanTransition reports whether the edge s -> target exists in the state machine.
func (s Status) CanTransition(target Status) bool {
	for _, allowed := range getTransitions()[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// Transition returns the target status if the edge s -> target is allowed,
// or an InvalidTransitionError naming both states otherwise. Denials are
// always reported, never silently ignored.
func (s Status) Transition(target Status) (Status, error) {
	if err := target.Validate(); err != nil {
		return Unknown, err
	}
	if !s.CanTransition(target) {
		return Unknown, NewInvalidTransitionError(s, target)
	}
	return target, nil
}

// InvalidTransitionError reports a denied state machine transition.
// It names both the current and the requested status so operators see
// exactly which rule they hit.
type InvalidTransitionError struct {
	From Status
	To   Status
}

// NewInvalidTransitionError creates an InvalidTransitionError for the denied edge.
func NewInvalidTransitionError(from, to Status) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: order in status %q cannot move to %q",
		ErrInvalidTransition, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}
