// Package order provides the Order aggregate of the booking domain and the
// state machine governing its lifecycle.
//
// The package includes:
//   - Order: the aggregate root holding line items, payment bookkeeping,
//     the broadcast set, and the vendor assignment
//   - Status: a state machine enforcing valid lifecycle transitions
//   - LineItem: an immutable snapshot of a booked package at order time
//
// Key business rules:
//   - amountPaid + remainingAmount always equals totalAmount
//   - line item prices are snapshots taken at order creation and never recomputed
//   - an order in broadcasting status has a non-empty broadcast set and no
//     assigned vendor; an assigned vendor implies an empty broadcast set
//   - completed and cancelled are terminal: every further transition is denied
//     with an InvalidTransitionError
//
// The package follows Domain-Driven Design principles: rich behavior on the
// aggregate, constructor validation, and no public mutable state.
package order
