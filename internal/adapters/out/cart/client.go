// Package cart clears customer carts in the storefront service after
// checkout succeeds.
package cart

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

const requestTimeout = 5 * time.Second

// Client implements ports.CartCleaner against the storefront HTTP API.
type Client struct {
	http *resty.Client
}

// NewClient creates a cart client for the given base URL.
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

// Clear empties the customer's cart. A cart that is already empty or gone is
// treated as cleared.
func (c *Client) Clear(ctx context.Context, customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("customerId", customerID.String()).
		Delete("/carts/{customerId}")
	if err != nil {
		return fmt.Errorf("clear cart for customer %s: %w", customerID, err)
	}

	switch resp.StatusCode() {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound:
		return nil
	default:
		return fmt.Errorf("cart service returned status %d: %s", resp.StatusCode(), resp.String())
	}
}

var _ ports.CartCleaner = (*Client)(nil)
