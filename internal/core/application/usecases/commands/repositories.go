// Package commands contains business operations that modify system state.
// All commands follow a consistent pattern: a validated command object, a
// handler owning the transaction, and side effects dispatched only after the
// state change commits.
package commands

import (
	"context"

	"booking/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// Handlers depend on the narrowest unit of work their operation needs.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// VendorRepoFactory provides access to the vendor repository within a transaction.
	VendorRepoFactory interface {
		VendorRepository() ports.VendorRepository
	}

	// OrderUoW manages transactions for order-only operations.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// UoW manages transactions that read vendors while mutating an order,
	// such as broadcasting.
	UoW interface {
		TxManager
		OrderRepoFactory
		VendorRepoFactory
	}

	// UoWFactory creates new unit of work instances for cross-aggregate operations.
	UoWFactory interface {
		Create() UoW
	}
)
