package commands

import (
	"context"
	"fmt"
	"log/slog"

	"booking/internal/core/domain/model/order"
	"booking/internal/core/domain/model/vendor"
	"booking/internal/core/domain/services"
	"booking/internal/core/ports"
	"booking/internal/pkg/errs"
	"booking/internal/pkg/metrics"
)

// BroadcastOrderCommandHandler is the broadcast coordinator. It moves the
// order into broadcasting under a row lock, records the offer set, and only
// after the commit dispatches the offer notifications, each carrying an
// accept link that is the vendor's sole credential for accepting the job.
type BroadcastOrderCommandHandler struct {
	uowFactory    UoWFactory
	notifier      ports.NotificationDispatcher
	cityMatcher   services.CityMatcher
	acceptBaseURL string
	logger        *slog.Logger
}

// NewBroadcastOrderCommandHandler creates a handler for broadcast operations.
// acceptBaseURL is the public base the vendor-facing accept links are built on.
func NewBroadcastOrderCommandHandler(
	uowFactory UoWFactory,
	notifier ports.NotificationDispatcher,
	acceptBaseURL string,
	logger *slog.Logger,
) BroadcastOrderCommandHandler {
	return BroadcastOrderCommandHandler{
		uowFactory:    uowFactory,
		notifier:      notifier,
		cityMatcher:   services.NewCityMatcher(),
		acceptBaseURL: acceptBaseURL,
		logger:        logger.With("component", "broadcast_handler"),
	}
}

// Handle processes the broadcast command.
//
// Unknown vendor ids fail the request; vendors serving a different city than
// the order are allowed through but logged, since operators may override the
// city match deliberately. Re-broadcasting replaces the open offer set, and a
// vendor dropped by the replacement can no longer accept.
func (h *BroadcastOrderCommandHandler) Handle(
	ctx context.Context,
	cmd BroadcastOrderCommand,
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

	vendors, err := uow.VendorRepository().GetByIDs(ctx, cmd.VendorIDs())
	if err != nil {
		return nil, err
	}
	if err = h.checkVendors(ctx, cmd, vendors, aggregate); err != nil {
		return nil, err
	}

	if err = aggregate.Broadcast(cmd.VendorIDs()); err != nil {
		return nil, err
	}

	if err = uow.OrderRepository().UpdateIfStatus(ctx, aggregate, loadedStatus); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	metrics.Broadcasts.Inc()

	// Offer dispatch never gates the response; the state change is already
	// durable and a vendor that misses the message simply never accepts.
	go h.dispatchOffers(context.WithoutCancel(ctx), aggregate, vendors)

	return aggregate, nil
}

// checkVendors ensures every requested vendor resolves and logs the soft
// city-mismatch check.
func (h *BroadcastOrderCommandHandler) checkVendors(
	ctx context.Context,
	cmd BroadcastOrderCommand,
	vendors []*vendor.Vendor,
	aggregate *order.Order,
) error {
	byID := make(map[string]*vendor.Vendor, len(vendors))
	for _, v := range vendors {
		byID[v.ID().String()] = v
	}
	for _, id := range cmd.VendorIDs() {
		if _, ok := byID[id.String()]; !ok {
			return errs.NewObjectNotFoundError("vendor", id.String())
		}
	}

	for _, mismatch := range h.cityMatcher.Mismatches(aggregate, vendors) {
		h.logger.WarnContext(ctx, "broadcasting to vendor outside the order city",
			"order_id", aggregate.ID().String(),
			"vendor_id", mismatch.VendorID,
			"vendor_city", mismatch.VendorCity,
			"order_city", mismatch.OrderCity)
	}

	return nil
}

func (h *BroadcastOrderCommandHandler) dispatchOffers(
	ctx context.Context,
	aggregate *order.Order,
	vendors []*vendor.Vendor,
) {
	for _, v := range vendors {
		data := map[string]any{
			"order_id":    aggregate.ID().String(),
			"vendor_id":   v.ID().String(),
			"city":        aggregate.City(),
			"accept_link": h.acceptLink(aggregate, v),
		}

		if err := h.notifier.Notify(ctx, v.ContactChannel(), "vendor_offer", data); err != nil {
			metrics.SideEffectFailures.WithLabelValues("vendor_offer_notify").Inc()
			h.logger.ErrorContext(ctx, "failed to dispatch offer notification",
				"order_id", aggregate.ID().String(),
				"vendor_id", v.ID().String(),
				"error", err)
		}
	}
}

func (h *BroadcastOrderCommandHandler) acceptLink(aggregate *order.Order, v *vendor.Vendor) string {
	return fmt.Sprintf("%s/vendors/accept?orderId=%s&vendorId=%s",
		h.acceptBaseURL, aggregate.ID().String(), v.ID().String())
}
