// Package queries contains read-side operations. Query handlers bypass the
// aggregate and read projections straight from the database; they never
// mutate state.
package queries

import (
	"errors"
	"time"

	"booking/internal/core/domain/model/kernel"
	"booking/internal/core/domain/model/order"
	"booking/internal/pkg/guard"
)

var (
	ErrGetUncompletedOrdersQueryIsNotConstructed = errors.New(
		"GetUncompletedOrdersQuery must be created via NewGetUncompletedOrdersQuery constructor",
	)
)

// GetUncompletedOrdersQuery retrieves every order still moving through the
// lifecycle, for the operator dashboard. Terminal orders (completed,
// cancelled) are excluded.
type GetUncompletedOrdersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetUncompletedOrdersQuery creates a query for all non-terminal orders.
func NewGetUncompletedOrdersQuery() GetUncompletedOrdersQuery {
	return GetUncompletedOrdersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetUncompletedOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetUncompletedOrdersQueryIsNotConstructed)
}

// GetUncompletedOrdersQueryResponse is one dashboard row: enough to triage
// an order without loading the aggregate.
type GetUncompletedOrdersQueryResponse struct {
	ID               kernel.UUID
	City             string
	Status           order.Status
	TotalAmount      kernel.Money
	AmountPaid       kernel.Money
	RemainingAmount  kernel.Money
	AssignedVendorID *kernel.UUID
	CreatedAt        time.Time
}
