package cmd

import "time"

// Config carries everything the composition root needs, loaded from the
// environment by cmd/app.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RedisAddr string

	NotifyServiceURL  string
	CartServiceURL    string
	PaymentServiceURL string

	// OperatorChannel is the notification channel operator alerts go to,
	// e.g. "slack:#order-ops".
	OperatorChannel string

	// AcceptBaseURL is the public base the vendor-facing accept links are
	// built on.
	AcceptBaseURL string

	// StaleBroadcastThreshold is how long an order may sit in broadcasting
	// before the operator is nudged.
	StaleBroadcastThreshold time.Duration

	// VendorDetailsTTL bounds how stale the cached vendor order view may be.
	VendorDetailsTTL time.Duration
}
