package commands

import (
	"context"
	"log/slog"

	"booking/internal/core/domain/model/order"
	"booking/internal/core/ports"
	"booking/internal/pkg/metrics"
)

// PlaceOrderCommandHandler is the checkout orchestrator. It verifies the
// payment, creates the order synchronously, and only then fires the two
// independent side effects (cart clear, operator notification) without
// blocking the caller.
type PlaceOrderCommandHandler struct {
	uowFactory      OrderUoWFactory
	payments        ports.PaymentVerifier
	carts           ports.CartCleaner
	notifier        ports.NotificationDispatcher
	operatorChannel string
	logger          *slog.Logger
}

// NewPlaceOrderCommandHandler creates a handler for checkout operations.
// operatorChannel is the notification channel new-order alerts go to.
func NewPlaceOrderCommandHandler(
	uowFactory OrderUoWFactory,
	payments ports.PaymentVerifier,
	carts ports.CartCleaner,
	notifier ports.NotificationDispatcher,
	operatorChannel string,
	logger *slog.Logger,
) PlaceOrderCommandHandler {
	return PlaceOrderCommandHandler{
		uowFactory:      uowFactory,
		payments:        payments,
		carts:           carts,
		notifier:        notifier,
		operatorChannel: operatorChannel,
		logger:          logger.With("component", "place_order_handler"),
	}
}

// Handle processes the checkout command.
//
// The order is persisted and returned before any side effect runs. A payment
// the gateway does not confirm aborts the request with ErrPaymentUnverified;
// side effect failures are logged and swallowed; the order's existence is
// the source of truth, not the side effects' success.
func (h *PlaceOrderCommandHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	verified, err := h.payments.Verify(ctx, cmd.Payment())
	if err != nil {
		return nil, err
	}

	aggregate, err := order.NewOrder(
		cmd.OrderID(),
		cmd.CustomerID(),
		cmd.City(),
		cmd.LineItems(),
		cmd.Fees(),
		verified.Amount,
	)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, aggregate); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	metrics.OrdersPlaced.Inc()

	// Side effects run after the commit, detached from the request's
	// cancellation, each isolated so one failing cannot affect the other.
	bgCtx := context.WithoutCancel(ctx)
	go h.clearCart(bgCtx, cmd)
	go h.notifyOperator(bgCtx, aggregate)

	return aggregate, nil
}

func (h *PlaceOrderCommandHandler) clearCart(ctx context.Context, cmd PlaceOrderCommand) {
	if err := h.carts.Clear(ctx, cmd.CustomerID()); err != nil {
		metrics.SideEffectFailures.WithLabelValues("cart_clear").Inc()
		h.logger.ErrorContext(ctx, "failed to clear cart after checkout",
			"order_id", cmd.OrderID().String(),
			"customer_id", cmd.CustomerID().String(),
			"error", err)
	}
}

func (h *PlaceOrderCommandHandler) notifyOperator(ctx context.Context, aggregate *order.Order) {
	err := h.notifier.Notify(ctx, h.operatorChannel, "operator_new_order", map[string]any{
		"order_id":  aggregate.ID().String(),
		"city":      aggregate.City(),
		"total":     aggregate.TotalAmount().String(),
		"paid":      aggregate.AmountPaid().String(),
		"remaining": aggregate.RemainingAmount().String(),
		"status":    aggregate.Status().String(),
	})
	if err != nil {
		metrics.SideEffectFailures.WithLabelValues("operator_notify").Inc()
		h.logger.ErrorContext(ctx, "failed to notify operator of new order",
			"order_id", aggregate.ID().String(),
			"error", err)
	}
}
