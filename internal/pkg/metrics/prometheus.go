// Package metrics defines the Prometheus instruments of the booking engine.
// They are registered on the default registry and exposed via /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OrdersPlaced counts orders successfully created at checkout.
	OrdersPlaced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_placed_total",
			Help: "Total number of orders created at checkout",
		},
	)

	// Broadcasts counts broadcast (and re-broadcast) operations.
	Broadcasts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "order_broadcasts_total",
			Help: "Total number of broadcast operations, re-broadcasts included",
		},
	)

	// AcceptAttempts counts vendor accept calls by outcome
	// (awarded, already_taken, offer_expired, not_found).
	AcceptAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vendor_accept_attempts_total",
			Help: "Total number of vendor accept attempts by outcome",
		},
		[]string{"outcome"},
	)

	// SideEffectFailures counts failed fire-and-forget side effects by name
	// (cart_clear, operator_notify, vendor_offer_notify).
	SideEffectFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "side_effect_failures_total",
			Help: "Total number of failed fire-and-forget side effects",
		},
		[]string{"effect"},
	)

	// NotifierBreakerState tracks the notification circuit breaker state
	// (0=closed, 1=open, 2=half-open).
	NotifierBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "notifier_circuit_breaker_state",
			Help: "Notification dispatch circuit breaker state (0=closed, 1=open, 2=half-open)",
		},
	)
)
