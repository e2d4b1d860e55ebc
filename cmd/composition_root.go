package cmd

import (
	"log/slog"

	"booking/internal/adapters/out/cart"
	"booking/internal/adapters/out/notify"
	"booking/internal/adapters/out/payment"
	"booking/internal/adapters/out/postgres"
	"booking/internal/core/application/usecases/commands"
	"booking/internal/core/application/usecases/queries"
	"booking/internal/core/ports"
	"booking/internal/jobs"
	"booking/internal/pkg/cache"

	"gorm.io/gorm"
)

// CompositionRoot wires adapters into use case handlers. Handlers are built
// per call; the shared pieces (database pool, HTTP clients, cache) live here.
type CompositionRoot struct {
	config Config
	gormDB *gorm.DB
	logger *slog.Logger

	uowFactory postgres.GormUnitOfWorkFactory
	cache      cache.Cache

	payments ports.PaymentVerifier
	carts    ports.CartCleaner
	notifier ports.NotificationDispatcher
}

// NewCompositionRoot builds the object graph from config.
func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	payments, err := payment.NewClient(config.PaymentServiceURL)
	if err != nil {
		return nil, err
	}

	carts, err := cart.NewClient(config.CartServiceURL)
	if err != nil {
		return nil, err
	}

	notifier, err := notify.NewClient(config.NotifyServiceURL, logger)
	if err != nil {
		return nil, err
	}

	return &CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		logger:     logger,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		cache:      cache.NewRedisCache(config.RedisAddr, "booking"),
		payments:   payments,
		carts:      carts,
		notifier:   notifier,
	}, nil
}

func (c *CompositionRoot) CreatePlaceOrderCommandHandler() commands.PlaceOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewPlaceOrderCommandHandler(
		f, c.payments, c.carts, c.notifier, c.config.OperatorChannel, c.logger)
}

func (c *CompositionRoot) CreateBroadcastOrderCommandHandler() commands.BroadcastOrderCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewBroadcastOrderCommandHandler(
		f, c.notifier, c.config.AcceptBaseURL, c.logger)
}

func (c *CompositionRoot) CreateAcceptOfferCommandHandler() commands.AcceptOfferCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewAcceptOfferCommandHandler(f, c.logger)
}

func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() commands.ChangeOrderStatusCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewChangeOrderStatusCommandHandler(f, c.logger)
}

func (c *CompositionRoot) CreateGetUncompletedOrdersQueryHandler() queries.GetUncompletedOrdersQueryHandler {
	return queries.NewGetUncompletedOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetVendorOrderDetailsQueryHandler() queries.GetVendorOrderDetailsQueryHandler {
	return queries.NewGetVendorOrderDetailsQueryHandler(
		c.gormDB, c.cache, c.config.VendorDetailsTTL, c.logger)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return jobs.NewJobManager(
		f, c.notifier, c.config.OperatorChannel, c.config.StaleBroadcastThreshold, c.logger)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
