package ports

import (
	"context"
	"errors"

	"booking/internal/core/domain/model/kernel"
)

// ErrPaymentUnverified is returned by a PaymentVerifier when the gateway does
// not confirm the payment. The checkout flow refuses to create an order for
// an unverified payment; the request fails, nothing is retried internally.
var ErrPaymentUnverified = errors.New("payment could not be verified")

// PaymentPayload carries the gateway callback fields for verification.
// The engine treats its contents as opaque.
type PaymentPayload struct {
	GatewayOrderID string
	PaymentID      string
	Signature      string
}

// VerifiedPayment is a payment confirmation the gateway has vouched for.
// The checkout flow trusts it and does not re-verify the signature.
type VerifiedPayment struct {
	Amount        kernel.Money
	TransactionID string
}

// PaymentVerifier verifies a gateway callback payload.
// Returns ErrPaymentUnverified when the gateway rejects it.
type PaymentVerifier interface {
	Verify(ctx context.Context, payload PaymentPayload) (VerifiedPayment, error)
}

// NotificationDispatcher delivers templated messages over a named channel
// (a vendor's contact channel or the operator channel). Dispatch is
// best-effort: callers fire it after their state change commits and never
// let its failure affect the outcome they already returned.
type NotificationDispatcher interface {
	Notify(ctx context.Context, channel, template string, data map[string]any) error
}

// CartCleaner empties a customer's cart after checkout. Fire-and-forget:
// a failed clear is logged by the caller, never surfaced to the customer.
type CartCleaner interface {
	Clear(ctx context.Context, customerID kernel.UUID) error
}
