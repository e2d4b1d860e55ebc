// Package payment verifies gateway payment callbacks before checkout
// creates an order.
package payment

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"booking/internal/core/domain/model/kernel"
	"booking/internal/core/ports"
	"booking/internal/pkg/errs"

	"github.com/go-resty/resty/v2"
)

const requestTimeout = 10 * time.Second

// Client implements ports.PaymentVerifier against the payment gateway's
// verification endpoint. Verification is the one outbound call checkout
// refuses to proceed without, so unlike notifications it carries no breaker:
// a failed call fails the checkout.
type Client struct {
	http *resty.Client
}

// NewClient creates a payment verification client for the given base URL.
func NewClient(baseURL string) (*Client, error) {
	if baseURL == "" {
		return nil, errs.NewValueIsRequiredError("baseURL")
	}

	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(requestTimeout).
			SetRetryCount(0),
	}, nil
}

type verifyRequest struct {
	GatewayOrderID string `json:"gateway_order_id"`
	PaymentID      string `json:"payment_id"`
	Signature      string `json:"signature"`
}

type verifyResponse struct {
	Verified      bool   `json:"verified"`
	AmountPaise   int64  `json:"amount_paise"`
	TransactionID string `json:"transaction_id"`
}

// Verify asks the gateway to confirm the callback payload. A gateway that
// answers but does not vouch for the payment yields ports.ErrPaymentUnverified.
func (c *Client) Verify(ctx context.Context, payload ports.PaymentPayload) (ports.VerifiedPayment, error) {
	if payload.GatewayOrderID == "" {
		return ports.VerifiedPayment{}, errs.NewValueIsRequiredError("gateway order id")
	}
	if payload.PaymentID == "" {
		return ports.VerifiedPayment{}, errs.NewValueIsRequiredError("payment id")
	}
	if payload.Signature == "" {
		return ports.VerifiedPayment{}, errs.NewValueIsRequiredError("signature")
	}

	var result verifyResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(verifyRequest{
			GatewayOrderID: payload.GatewayOrderID,
			PaymentID:      payload.PaymentID,
			Signature:      payload.Signature,
		}).
		SetResult(&result).
		Post("/payments/verify")
	if err != nil {
		return ports.VerifiedPayment{}, fmt.Errorf("verify payment %s: %w", payload.PaymentID, err)
	}

	switch {
	case resp.StatusCode() == http.StatusOK && result.Verified:
		// fall through to build the confirmation
	case resp.StatusCode() == http.StatusOK,
		resp.StatusCode() == http.StatusBadRequest,
		resp.StatusCode() == http.StatusUnprocessableEntity:
		return ports.VerifiedPayment{}, fmt.Errorf("payment %s rejected by gateway: %w",
			payload.PaymentID, ports.ErrPaymentUnverified)
	default:
		return ports.VerifiedPayment{}, fmt.Errorf("payment gateway returned status %d: %s",
			resp.StatusCode(), resp.String())
	}

	amount, err := kernel.NewMoney(result.AmountPaise)
	if err != nil {
		return ports.VerifiedPayment{}, errs.NewValueIsInvalidErrorWithCause("verified amount", err)
	}

	return ports.VerifiedPayment{
		Amount:        amount,
		TransactionID: result.TransactionID,
	}, nil
}

var _ ports.PaymentVerifier = (*Client)(nil)
