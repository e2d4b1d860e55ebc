package commands

import (
	"context"
	"log/slog"

	"booking/internal/core/domain/model/order"
)

// ChangeOrderStatusCommandHandler executes operator-driven direct
// transitions. Every mutation goes through the aggregate's own transition
// methods, so the status rules enforced there apply unchanged here, and the
// write is conditional on the status the order was loaded in.
type ChangeOrderStatusCommandHandler struct {
	uowFactory UoWFactory
	logger     *slog.Logger
}

// NewChangeOrderStatusCommandHandler creates a handler for operator transitions.
func NewChangeOrderStatusCommandHandler(
	uowFactory UoWFactory,
	logger *slog.Logger,
) ChangeOrderStatusCommandHandler {
	return ChangeOrderStatusCommandHandler{
		uowFactory: uowFactory,
		logger:     logger.With("component", "status_handler"),
	}
}

// Handle processes the transition command and returns the updated order.
//
// Target semantics:
//   - in_progress: self-assign the named vendor, withdrawing any broadcast
//   - paid: settle the outstanding balance in full
//   - completed: mark the assigned job fulfilled
//   - cancelled: terminate the order, revoking open offers
func (h *ChangeOrderStatusCommandHandler) Handle(
	ctx context.Context,
	cmd ChangeOrderStatusCommand,
) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.OrderRepository().GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}
	loadedStatus := aggregate.Status()

	if err = h.apply(ctx, uow, aggregate, cmd); err != nil {
		return nil, err
	}

	if err = uow.OrderRepository().UpdateIfStatus(ctx, aggregate, loadedStatus); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "order status changed",
		"order_id", aggregate.ID().String(),
		"from", loadedStatus.String(),
		"to", aggregate.Status().String())

	return aggregate, nil
}

func (h *ChangeOrderStatusCommandHandler) apply(
	ctx context.Context,
	uow UoW,
	aggregate *order.Order,
	cmd ChangeOrderStatusCommand,
) error {
	switch cmd.Target() {
	case order.InProgress:
		// The vendor must resolve before the order is handed to it.
		if _, err := uow.VendorRepository().Get(ctx, *cmd.VendorID()); err != nil {
			return err
		}
		return aggregate.SelfAssign(*cmd.VendorID())

	case order.Paid:
		return aggregate.RecordPayment(aggregate.RemainingAmount())

	case order.Completed:
		return aggregate.Complete()

	case order.Cancelled:
		return aggregate.Cancel()

	default:
		// Unreachable: the command constructor rejects every other target.
		return order.NewInvalidTransitionError(aggregate.Status(), cmd.Target())
	}
}
