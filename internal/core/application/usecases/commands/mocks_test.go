package commands_test

import (
	"context"
	"testing"
	"time"

	"booking/internal/core/application/usecases/commands"
	"booking/internal/core/domain/model/kernel"
	"booking/internal/core/domain/model/order"
	"booking/internal/core/domain/model/vendor"
	"booking/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateIfStatus(
	ctx context.Context,
	aggregate *order.Order,
	expected order.Status,
) error {
	args := m.Called(ctx, aggregate, expected)
	return args.Error(0)
}

func (m *MockOrderRepository) GetAllInStatus(ctx context.Context, status order.Status) ([]*order.Order, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) CountCompletedByVendor(ctx context.Context, vendorID kernel.UUID) (int64, error) {
	args := m.Called(ctx, vendorID)
	return args.Get(0).(int64), args.Error(1)
}

type MockVendorRepository struct{ mock.Mock }

func (m *MockVendorRepository) Add(ctx context.Context, aggregate *vendor.Vendor) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockVendorRepository) Get(ctx context.Context, id kernel.UUID) (*vendor.Vendor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vendor.Vendor), args.Error(1)
}

func (m *MockVendorRepository) GetByIDs(ctx context.Context, ids []kernel.UUID) ([]*vendor.Vendor, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vendor.Vendor), args.Error(1)
}

func (m *MockVendorRepository) GetAllInCity(ctx context.Context, city string) ([]*vendor.Vendor, error) {
	args := m.Called(ctx, city)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vendor.Vendor), args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) VendorRepository() ports.VendorRepository {
	args := m.Called()
	return args.Get(0).(ports.VendorRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockPaymentVerifier struct{ mock.Mock }

func (m *MockPaymentVerifier) Verify(
	ctx context.Context,
	payload ports.PaymentPayload,
) (ports.VerifiedPayment, error) {
	args := m.Called(ctx, payload)
	return args.Get(0).(ports.VerifiedPayment), args.Error(1)
}

type MockCartCleaner struct{ mock.Mock }

func (m *MockCartCleaner) Clear(ctx context.Context, customerID kernel.UUID) error {
	args := m.Called(ctx, customerID)
	return args.Error(0)
}

type MockNotificationDispatcher struct{ mock.Mock }

func (m *MockNotificationDispatcher) Notify(
	ctx context.Context,
	channel, template string,
	data map[string]any,
) error {
	args := m.Called(ctx, channel, template, data)
	return args.Error(0)
}

func testLineItem(t *testing.T, rupees int64, quantity int) order.LineItem {
	t.Helper()

	price, err := kernel.MoneyFromRupees(rupees)
	require.NoError(t, err)

	item, err := order.NewLineItem(
		kernel.NewUUID(),
		"Rose and lily entrance arch",
		quantity,
		price,
		time.Date(2026, 12, 5, 0, 0, 0, 0, time.UTC),
		"morning",
		"",
	)
	require.NoError(t, err)
	return item
}

func paidOrder(t *testing.T) *order.Order {
	t.Helper()

	total, err := kernel.MoneyFromRupees(50000)
	require.NoError(t, err)

	o, err := order.NewOrder(
		kernel.NewUUID(), kernel.NewUUID(), "Jaipur",
		[]order.LineItem{testLineItem(t, 50000, 1)},
		kernel.ZeroMoney(), total,
	)
	require.NoError(t, err)
	require.Equal(t, order.Paid, o.Status())
	return o
}

func broadcastingOrder(t *testing.T, vendorIDs ...kernel.UUID) *order.Order {
	t.Helper()

	o := paidOrder(t)
	require.NoError(t, o.Broadcast(vendorIDs))
	require.Equal(t, order.Broadcasting, o.Status())
	return o
}

func testVendor(t *testing.T, city string) *vendor.Vendor {
	t.Helper()

	v, err := vendor.NewVendor(kernel.NewUUID(), "Shree Decorators", city, "whatsapp:+919800000001")
	require.NoError(t, err)
	return v
}
