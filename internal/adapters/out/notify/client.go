// Package notify delivers templated messages to vendors and operators
// through the external notification service.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"booking/internal/core/ports"
	"booking/internal/pkg/errs"
	"booking/internal/pkg/metrics"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
)

const requestTimeout = 5 * time.Second

// Client implements ports.NotificationDispatcher against the notification
// service HTTP API. Calls pass through a circuit breaker: the dispatcher is
// fire-and-forget for every caller, so when the service is down it is better
// to fail fast than to pile up blocked goroutines.
type Client struct {
	http    *resty.Client
	breaker *gobreaker.CircuitBreaker
	logger  *slog.Logger
}

// NewClient creates a notification client for the given base URL.
func NewClient(baseURL string, logger *slog.Logger) (*Client, error) {
	if baseURL == "" {
		return nil, errs.NewValueIsRequiredError("baseURL")
	}
	if logger == nil {
		return nil, errs.NewValueIsRequiredError("logger")
	}

	log := logger.With("component", "notify_client")

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "notifier",
		MaxRequests: 3,
		Interval:    15 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.NotifierBreakerState.Set(breakerStateValue(to))
			log.Info("notification circuit breaker state changed",
				"from", from.String(),
				"to", to.String(),
			)
		},
	})
	metrics.NotifierBreakerState.Set(breakerStateValue(gobreaker.StateClosed))

	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(requestTimeout).
			SetRetryCount(0),
		breaker: breaker,
		logger:  log,
	}, nil
}

type notifyRequest struct {
	Channel  string         `json:"channel"`
	Template string         `json:"template"`
	Data     map[string]any `json:"data"`
}

// Notify sends one templated message over the given channel.
func (c *Client) Notify(ctx context.Context, channel, template string, data map[string]any) error {
	if channel == "" {
		return errs.NewValueIsRequiredError("channel")
	}
	if template == "" {
		return errs.NewValueIsRequiredError("template")
	}

	_, err := c.breaker.Execute(func() (any, error) {
		resp, httpErr := c.http.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetBody(notifyRequest{Channel: channel, Template: template, Data: data}).
			Post("/notifications")
		if httpErr != nil {
			return nil, httpErr
		}
		if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusAccepted {
			return nil, fmt.Errorf("notification service returned status %d: %s",
				resp.StatusCode(), resp.String())
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("notify %s with template %s: %w", channel, template, err)
	}

	return nil
}

var _ ports.NotificationDispatcher = (*Client)(nil)

func breakerStateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateOpen:
		return 1
	case gobreaker.StateHalfOpen:
		return 2
	default:
		return 0
	}
}
