package commands

import (
	"context"
	"errors"
	"log/slog"

	"booking/internal/core/domain/model/order"
	"booking/internal/pkg/errs"
	"booking/internal/pkg/metrics"
)

// AcceptOfferCommandHandler is the accept arbiter. It resolves the race
// between vendors claiming the same broadcast and guarantees at most one
// winner per order.
//
// The guarantee rests on the storage layer, not on this code path: the order
// row is locked for the duration of the decision (GetForUpdate), and the
// write itself is still a conditional update keyed on the broadcasting
// status (UpdateIfStatus), so check and write are indivisible with respect
// to every other accept call on the same order. Concurrent accepts serialize
// on the row lock; whoever runs second observes the already-updated state
// and is classified below.
type AcceptOfferCommandHandler struct {
	uowFactory OrderUoWFactory
	logger     *slog.Logger
}

// NewAcceptOfferCommandHandler creates a handler for vendor accept operations.
func NewAcceptOfferCommandHandler(uowFactory OrderUoWFactory, logger *slog.Logger) AcceptOfferCommandHandler {
	return AcceptOfferCommandHandler{
		uowFactory: uowFactory,
		logger:     logger.With("component", "accept_arbiter"),
	}
}

// Handle processes one vendor's accept attempt and returns its outcome.
//
// Classification, in decision order:
//   - unknown order id: errs.ObjectNotFoundError
//   - cancelled order: OfferExpired for everyone, including a vendor the
//     order was awarded to before the cancellation
//   - order already awarded to this same vendor: Awarded again (idempotent,
//     a duplicated notification or double-tap is not an error)
//   - broadcasting and the vendor holds an open offer: the vendor wins;
//     the order moves to in_progress and the broadcast set clears, closing
//     the race for everyone
//   - broadcasting but no open offer for this vendor: OfferExpired
//   - awarded to a different vendor (in progress or completed): AlreadyTaken
//   - anything else (broadcast withdrawn, never broadcast): OfferExpired
//
// AlreadyTaken and OfferExpired are reported as outcomes, not errors; only
// lookup and infrastructure failures surface as errors.
func (h *AcceptOfferCommandHandler) Handle(
	ctx context.Context,
	cmd AcceptOfferCommand,
) (AcceptOutcome, error) {
	if err := cmd.Validate(); err != nil {
		return OutcomeUnknown, err
	}

	outcome, err := h.arbitrate(ctx, cmd)

	switch {
	case err == nil:
		metrics.AcceptAttempts.WithLabelValues(outcome.String()).Inc()
	case errors.Is(err, errs.ErrObjectNotFound):
		metrics.AcceptAttempts.WithLabelValues("not_found").Inc()
	}

	return outcome, err
}

func (h *AcceptOfferCommandHandler) arbitrate(
	ctx context.Context,
	cmd AcceptOfferCommand,
) (AcceptOutcome, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return OutcomeUnknown, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()

	aggregate, err := repo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return OutcomeUnknown, err
	}

	// A cancelled order keeps its assignee as historical record, but there
	// is no job to hold anymore; even the awarded vendor is told the offer
	// is gone rather than shown a stale award.
	if aggregate.Status() == order.Cancelled {
		return OutcomeOfferExpired, nil
	}

	if assigned := aggregate.AssignedVendor(); assigned != nil && assigned.IsEqual(cmd.VendorID()) {
		return OutcomeAwarded, nil
	}

	switch aggregate.Status() {
	case order.Broadcasting:
		if !aggregate.IsOffered(cmd.VendorID()) {
			return OutcomeOfferExpired, nil
		}

		if err = aggregate.Accept(cmd.VendorID()); err != nil {
			return OutcomeUnknown, err
		}

		if err = repo.UpdateIfStatus(ctx, aggregate, order.Broadcasting); err != nil {
			return OutcomeUnknown, err
		}

		if err = uow.Commit(ctx); err != nil {
			return OutcomeUnknown, err
		}

		h.logger.InfoContext(ctx, "order awarded",
			"order_id", cmd.OrderID().String(),
			"vendor_id", cmd.VendorID().String())
		return OutcomeAwarded, nil

	case order.InProgress, order.Completed:
		// Someone else won the race.
		return OutcomeAlreadyTaken, nil

	default:
		// Never offered to this vendor, or the broadcast was withdrawn.
		return OutcomeOfferExpired, nil
	}
}
