package postgres_test

import (
	"context"
	"testing"
	"time"

	postgresadapter "booking/internal/adapters/out/postgres"
	"booking/internal/adapters/out/postgres/orderrepo"
	"booking/internal/adapters/out/postgres/vendorrepo"
	"booking/internal/core/domain/model/kernel"
	"booking/internal/core/domain/model/order"
	"booking/internal/core/domain/model/vendor"
	"booking/internal/core/ports"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite verifies the GORM unit of work against a
// real PostgreSQL database: transaction boundaries, rollback isolation, and
// repository binding to the open transaction.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.LineItemDTO{},
		&orderrepo.BroadcastOfferDTO{},
		&vendorrepo.VendorDTO{},
	))

	suite.factory = postgresadapter.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE orders, order_line_items, broadcast_offers, vendors").Error
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_PersistsAcrossRepositories() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))

	testOrder := suite.createPaidOrder()
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))

	testVendor, err := vendor.NewVendor(kernel.NewUUID(), "Rangoli Events", "Jodhpur", "whatsapp:+919800000042")
	suite.Require().NoError(err)
	suite.Require().NoError(uow.VendorRepository().Add(ctx, testVendor))

	suite.Require().NoError(uow.Commit(ctx))

	suite.assertOrderCount(1)
	suite.assertVendorCount(1)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_DiscardsWrites() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, suite.createPaidOrder()))
	suite.Require().NoError(uow.Rollback(ctx))

	suite.assertOrderCount(0)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_WithoutBegin_ReturnsError() {
	uow := suite.factory.Create()

	err := uow.Commit(context.Background())

	suite.Require().Error(err)
	suite.ErrorIs(err, gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_WithoutBegin_ReturnsError() {
	uow := suite.factory.Create()

	err := uow.Rollback(context.Background())

	suite.Require().Error(err)
	suite.ErrorIs(err, gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUncommittedWrite_InvisibleToOtherReaders() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	testOrder := suite.createPaidOrder()
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))

	// A second unit of work must not observe the uncommitted row.
	suite.assertOrderCount(0)

	suite.Require().NoError(uow.Commit(ctx))
	suite.assertOrderCount(1)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestFullLifecycle_BroadcastThenAccept() {
	ctx := context.Background()
	vendorID := kernel.NewUUID()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	testOrder := suite.createPaidOrder()
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))
	suite.Require().NoError(uow.Commit(ctx))

	uow = suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	aggregate, err := uow.OrderRepository().GetForUpdate(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(aggregate.Broadcast([]kernel.UUID{vendorID}))
	suite.Require().NoError(uow.OrderRepository().UpdateIfStatus(ctx, aggregate, order.Paid))
	suite.Require().NoError(uow.Commit(ctx))

	uow = suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	aggregate, err = uow.OrderRepository().GetForUpdate(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(aggregate.Accept(vendorID))
	suite.Require().NoError(uow.OrderRepository().UpdateIfStatus(ctx, aggregate, order.Broadcasting))
	suite.Require().NoError(uow.Commit(ctx))

	loaded, err := suite.factory.Create().OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.InProgress, loaded.Status())
	suite.Require().NotNil(loaded.AssignedVendor())
	suite.True(loaded.AssignedVendor().IsEqual(vendorID))
	suite.Empty(loaded.BroadcastSet())
}

func (suite *UnitOfWorkIntegrationTestSuite) createPaidOrder() *order.Order {
	item, err := order.NewLineItem(
		kernel.NewUUID(), "Orchid table centerpieces", 10, suite.rupees(1500),
		time.Date(2026, 10, 3, 0, 0, 0, 0, time.UTC), "morning", "",
	)
	suite.Require().NoError(err)

	testOrder, err := order.NewOrder(
		kernel.NewUUID(), kernel.NewUUID(), "Jodhpur",
		[]order.LineItem{item}, kernel.ZeroMoney(), suite.rupees(15000),
	)
	suite.Require().NoError(err)

	return testOrder
}

func (suite *UnitOfWorkIntegrationTestSuite) rupees(r int64) kernel.Money {
	m, err := kernel.MoneyFromRupees(r)
	suite.Require().NoError(err)
	return m
}

func (suite *UnitOfWorkIntegrationTestSuite) assertOrderCount(expected int64) {
	var count int64
	suite.Require().NoError(suite.db.Model(&orderrepo.OrderDTO{}).Count(&count).Error)
	suite.Equal(expected, count)
}

func (suite *UnitOfWorkIntegrationTestSuite) assertVendorCount(expected int64) {
	var count int64
	suite.Require().NoError(suite.db.Model(&vendorrepo.VendorDTO{}).Count(&count).Error)
	suite.Equal(expected, count)
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
