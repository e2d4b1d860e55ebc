package order_test

import (
	"testing"
	"time"

	"booking/internal/core/domain/model/kernel"
	"booking/internal/core/domain/model/order"
	"booking/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLineItem(t *testing.T, rupees int64, quantity int) order.LineItem {
	t.Helper()

	price, err := kernel.MoneyFromRupees(rupees)
	require.NoError(t, err)

	item, err := order.NewLineItem(
		kernel.NewUUID(),
		"Marigold stage backdrop",
		quantity,
		price,
		time.Date(2026, 11, 20, 0, 0, 0, 0, time.UTC),
		"evening",
		"include fairy lights",
	)
	require.NoError(t, err)
	return item
}

func paidOrder(t *testing.T) *order.Order {
	t.Helper()

	total, _ := kernel.MoneyFromRupees(50000)
	o, err := order.NewOrder(
		kernel.NewUUID(), kernel.NewUUID(), "Jaipur",
		[]order.LineItem{testLineItem(t, 50000, 1)},
		kernel.ZeroMoney(), total,
	)
	require.NoError(t, err)
	require.Equal(t, order.Paid, o.Status())
	return o
}

func TestLineItem_Total(t *testing.T) {
	item := testLineItem(t, 1500, 4)

	total, err := item.Total()

	require.NoError(t, err)
	assert.Equal(t, int64(600_000), total.Paise())
}

func TestNewOrder(t *testing.T) {
	t.Run("full payment yields paid status with zero remainder", func(t *testing.T) {
		o := paidOrder(t)

		assert.True(t, o.RemainingAmount().IsZero())
		assert.True(t, o.AmountPaid().Add(o.RemainingAmount()).IsEqual(o.TotalAmount()))
		assert.Nil(t, o.AssignedVendor())
		assert.Empty(t, o.BroadcastSet())
	})

	t.Run("advance payment yields partial_paid with tracked remainder", func(t *testing.T) {
		// Cart total 50,000 with a 40% advance plan.
		advance, _ := kernel.MoneyFromRupees(20000)

		o, err := order.NewOrder(
			kernel.NewUUID(), kernel.NewUUID(), "Jaipur",
			[]order.LineItem{testLineItem(t, 50000, 1)},
			kernel.ZeroMoney(), advance,
		)

		require.NoError(t, err)
		assert.Equal(t, order.PartialPaid, o.Status())
		assert.Equal(t, int64(2000000), o.AmountPaid().Paise())
		assert.Equal(t, int64(3000000), o.RemainingAmount().Paise())
	})

	t.Run("no payment yields pending", func(t *testing.T) {
		o, err := order.NewOrder(
			kernel.NewUUID(), kernel.NewUUID(), "Jaipur",
			[]order.LineItem{testLineItem(t, 50000, 1)},
			kernel.ZeroMoney(), kernel.ZeroMoney(),
		)

		require.NoError(t, err)
		assert.Equal(t, order.Pending, o.Status())
	})

	t.Run("total sums line items plus fees", func(t *testing.T) {
		fees, _ := kernel.MoneyFromRupees(500)

		o, err := order.NewOrder(
			kernel.NewUUID(), kernel.NewUUID(), "Jaipur",
			[]order.LineItem{testLineItem(t, 1500, 3), testLineItem(t, 2000, 1)},
			fees, kernel.ZeroMoney(),
		)

		require.NoError(t, err)
		assert.Equal(t, int64(700000), o.TotalAmount().Paise())
	})

	t.Run("payment above total is rejected", func(t *testing.T) {
		excess, _ := kernel.MoneyFromRupees(60000)

		_, err := order.NewOrder(
			kernel.NewUUID(), kernel.NewUUID(), "Jaipur",
			[]order.LineItem{testLineItem(t, 50000, 1)},
			kernel.ZeroMoney(), excess,
		)

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("orders without line items are rejected", func(t *testing.T) {
		_, err := order.NewOrder(
			kernel.NewUUID(), kernel.NewUUID(), "Jaipur",
			nil, kernel.ZeroMoney(), kernel.ZeroMoney(),
		)

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("zero value order is not constructed", func(t *testing.T) {
		var o order.Order
		require.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)
	})
}

func TestOrder_Broadcast(t *testing.T) {
	t.Run("paid order enters broadcasting with the vendor set", func(t *testing.T) {
		o := paidOrder(t)
		v1, v2 := kernel.NewUUID(), kernel.NewUUID()

		require.NoError(t, o.Broadcast([]kernel.UUID{v1, v2}))

		assert.Equal(t, order.Broadcasting, o.Status())
		assert.Len(t, o.BroadcastSet(), 2)
		assert.True(t, o.IsOffered(v1))
		assert.True(t, o.IsOffered(v2))
		assert.Nil(t, o.AssignedVendor())
	})

	t.Run("re-broadcast replaces the set and revokes dropped offers", func(t *testing.T) {
		o := paidOrder(t)
		v1, v2, v3 := kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()

		require.NoError(t, o.Broadcast([]kernel.UUID{v1, v2}))
		require.NoError(t, o.Broadcast([]kernel.UUID{v3}))

		assert.Equal(t, order.Broadcasting, o.Status())
		assert.False(t, o.IsOffered(v1))
		assert.False(t, o.IsOffered(v2))
		assert.True(t, o.IsOffered(v3))
	})

	t.Run("duplicate vendors collapse to one offer", func(t *testing.T) {
		o := paidOrder(t)
		v1 := kernel.NewUUID()

		require.NoError(t, o.Broadcast([]kernel.UUID{v1, v1, v1}))
		assert.Len(t, o.BroadcastSet(), 1)
	})

	t.Run("empty vendor set is rejected", func(t *testing.T) {
		o := paidOrder(t)

		err := o.Broadcast(nil)

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("pending order cannot broadcast", func(t *testing.T) {
		o, err := order.NewOrder(
			kernel.NewUUID(), kernel.NewUUID(), "Jaipur",
			[]order.LineItem{testLineItem(t, 50000, 1)},
			kernel.ZeroMoney(), kernel.ZeroMoney(),
		)
		require.NoError(t, err)

		err = o.Broadcast([]kernel.UUID{kernel.NewUUID()})

		require.Error(t, err)
		require.ErrorIs(t, err, order.ErrInvalidTransition)
	})

	t.Run("assigned order cannot broadcast", func(t *testing.T) {
		o := paidOrder(t)
		require.NoError(t, o.SelfAssign(kernel.NewUUID()))

		err := o.Broadcast([]kernel.UUID{kernel.NewUUID()})

		require.Error(t, err)
		require.ErrorIs(t, err, order.ErrVendorAlreadyAssigned)
	})

	t.Run("terminal order cannot broadcast", func(t *testing.T) {
		o := paidOrder(t)
		require.NoError(t, o.Cancel())

		err := o.Broadcast([]kernel.UUID{kernel.NewUUID()})

		require.Error(t, err)
		require.ErrorIs(t, err, order.ErrInvalidTransition)
	})
}

func TestOrder_Accept(t *testing.T) {
	t.Run("offered vendor wins the order and the set clears", func(t *testing.T) {
		o := paidOrder(t)
		winner := kernel.NewUUID()
		require.NoError(t, o.Broadcast([]kernel.UUID{winner, kernel.NewUUID()}))

		require.NoError(t, o.Accept(winner))

		assert.Equal(t, order.InProgress, o.Status())
		require.NotNil(t, o.AssignedVendor())
		assert.True(t, o.AssignedVendor().IsEqual(winner))
		assert.Empty(t, o.BroadcastSet())
	})

	t.Run("vendor outside the set gets an expired offer", func(t *testing.T) {
		o := paidOrder(t)
		require.NoError(t, o.Broadcast([]kernel.UUID{kernel.NewUUID()}))

		err := o.Accept(kernel.NewUUID())

		require.Error(t, err)
		require.ErrorIs(t, err, order.ErrOfferExpired)
	})

	t.Run("vendor dropped by a re-broadcast gets an expired offer", func(t *testing.T) {
		o := paidOrder(t)
		dropped := kernel.NewUUID()
		require.NoError(t, o.Broadcast([]kernel.UUID{dropped, kernel.NewUUID()}))
		require.NoError(t, o.Broadcast([]kernel.UUID{kernel.NewUUID()}))

		err := o.Accept(dropped)

		require.Error(t, err)
		require.ErrorIs(t, err, order.ErrOfferExpired)
	})
}

func TestOrder_SelfAssign(t *testing.T) {
	t.Run("operator hands the order directly to a vendor", func(t *testing.T) {
		o := paidOrder(t)
		vendorID := kernel.NewUUID()

		require.NoError(t, o.SelfAssign(vendorID))

		assert.Equal(t, order.InProgress, o.Status())
		assert.True(t, o.AssignedVendor().IsEqual(vendorID))
	})

	t.Run("self-assign withdraws a broadcast in flight", func(t *testing.T) {
		o := paidOrder(t)
		offered := kernel.NewUUID()
		require.NoError(t, o.Broadcast([]kernel.UUID{offered}))

		require.NoError(t, o.SelfAssign(kernel.NewUUID()))

		assert.Empty(t, o.BroadcastSet())
		assert.False(t, o.IsOffered(offered))
	})

	t.Run("self-assign over another vendor is rejected", func(t *testing.T) {
		o := paidOrder(t)
		require.NoError(t, o.SelfAssign(kernel.NewUUID()))

		err := o.SelfAssign(kernel.NewUUID())

		require.Error(t, err)
		require.ErrorIs(t, err, order.ErrVendorAlreadyAssigned)
	})
}

func TestOrder_RecordPayment(t *testing.T) {
	t.Run("settling the remainder moves partial_paid to paid", func(t *testing.T) {
		advance, _ := kernel.MoneyFromRupees(20000)
		o, err := order.NewOrder(
			kernel.NewUUID(), kernel.NewUUID(), "Jaipur",
			[]order.LineItem{testLineItem(t, 50000, 1)},
			kernel.ZeroMoney(), advance,
		)
		require.NoError(t, err)

		rest, _ := kernel.MoneyFromRupees(30000)
		require.NoError(t, o.RecordPayment(rest))

		assert.Equal(t, order.Paid, o.Status())
		assert.True(t, o.RemainingAmount().IsZero())
		assert.True(t, o.AmountPaid().IsEqual(o.TotalAmount()))
	})

	t.Run("partial payment on a pending order moves it to partial_paid", func(t *testing.T) {
		o, err := order.NewOrder(
			kernel.NewUUID(), kernel.NewUUID(), "Jaipur",
			[]order.LineItem{testLineItem(t, 50000, 1)},
			kernel.ZeroMoney(), kernel.ZeroMoney(),
		)
		require.NoError(t, err)

		advance, _ := kernel.MoneyFromRupees(20000)
		require.NoError(t, o.RecordPayment(advance))

		assert.Equal(t, order.PartialPaid, o.Status())
		assert.True(t, o.AmountPaid().Add(o.RemainingAmount()).IsEqual(o.TotalAmount()))
	})

	t.Run("overpayment is rejected", func(t *testing.T) {
		advance, _ := kernel.MoneyFromRupees(20000)
		o, err := order.NewOrder(
			kernel.NewUUID(), kernel.NewUUID(), "Jaipur",
			[]order.LineItem{testLineItem(t, 50000, 1)},
			kernel.ZeroMoney(), advance,
		)
		require.NoError(t, err)

		tooMuch, _ := kernel.MoneyFromRupees(40000)
		err = o.RecordPayment(tooMuch)

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("payments are rejected once the order is in progress", func(t *testing.T) {
		o := paidOrder(t)
		require.NoError(t, o.SelfAssign(kernel.NewUUID()))

		amount, _ := kernel.MoneyFromRupees(100)
		err := o.RecordPayment(amount)

		require.Error(t, err)
		require.ErrorIs(t, err, order.ErrInvalidTransition)
	})
}

func TestOrder_TerminalStates(t *testing.T) {
	t.Run("cancel keeps the assignment as historical record", func(t *testing.T) {
		o := paidOrder(t)
		vendorID := kernel.NewUUID()
		require.NoError(t, o.SelfAssign(vendorID))

		require.NoError(t, o.Cancel())

		assert.Equal(t, order.Cancelled, o.Status())
		require.NotNil(t, o.AssignedVendor())
		assert.True(t, o.AssignedVendor().IsEqual(vendorID))
	})

	t.Run("cancel withdraws an in-flight broadcast", func(t *testing.T) {
		o := paidOrder(t)
		require.NoError(t, o.Broadcast([]kernel.UUID{kernel.NewUUID()}))

		require.NoError(t, o.Cancel())

		assert.Empty(t, o.BroadcastSet())
	})

	t.Run("complete requires an in-progress order", func(t *testing.T) {
		o := paidOrder(t)

		err := o.Complete()

		require.Error(t, err)
		require.ErrorIs(t, err, order.ErrInvalidTransition)
	})

	t.Run("no mutation survives a terminal state", func(t *testing.T) {
		o := paidOrder(t)
		require.NoError(t, o.SelfAssign(kernel.NewUUID()))
		require.NoError(t, o.Complete())

		amount, _ := kernel.MoneyFromRupees(10)

		require.ErrorIs(t, o.Cancel(), order.ErrInvalidTransition)
		require.ErrorIs(t, o.Complete(), order.ErrInvalidTransition)
		require.ErrorIs(t, o.RecordPayment(amount), order.ErrInvalidTransition)
		require.Error(t, o.Broadcast([]kernel.UUID{kernel.NewUUID()}))
	})
}

func TestRestoreOrder(t *testing.T) {
	total, _ := kernel.MoneyFromRupees(50000)
	paid, _ := kernel.MoneyFromRupees(20000)
	remaining, _ := kernel.MoneyFromRupees(30000)
	now := time.Now().UTC()

	t.Run("restores a consistent partial_paid order", func(t *testing.T) {
		o, err := order.RestoreOrder(
			kernel.NewUUID(), kernel.NewUUID(), "Jaipur",
			[]order.LineItem{testLineItem(t, 50000, 1)},
			total, paid, remaining,
			order.PartialPaid, nil, nil, now, now,
		)

		require.NoError(t, err)
		assert.Equal(t, order.PartialPaid, o.Status())
	})

	t.Run("rejects unbalanced amounts", func(t *testing.T) {
		wrong, _ := kernel.MoneyFromRupees(10000)

		_, err := order.RestoreOrder(
			kernel.NewUUID(), kernel.NewUUID(), "Jaipur",
			[]order.LineItem{testLineItem(t, 50000, 1)},
			total, paid, wrong,
			order.PartialPaid, nil, nil, now, now,
		)

		require.Error(t, err)
	})

	t.Run("rejects broadcasting without open offers", func(t *testing.T) {
		_, err := order.RestoreOrder(
			kernel.NewUUID(), kernel.NewUUID(), "Jaipur",
			[]order.LineItem{testLineItem(t, 50000, 1)},
			total, total, kernel.ZeroMoney(),
			order.Broadcasting, nil, nil, now, now,
		)

		require.Error(t, err)
	})

	t.Run("rejects broadcasting with an assigned vendor", func(t *testing.T) {
		vendorID := kernel.NewUUID()

		_, err := order.RestoreOrder(
			kernel.NewUUID(), kernel.NewUUID(), "Jaipur",
			[]order.LineItem{testLineItem(t, 50000, 1)},
			total, total, kernel.ZeroMoney(),
			order.Broadcasting, &vendorID, []kernel.UUID{kernel.NewUUID()}, now, now,
		)

		require.Error(t, err)
	})

	t.Run("rejects open offers outside broadcasting", func(t *testing.T) {
		_, err := order.RestoreOrder(
			kernel.NewUUID(), kernel.NewUUID(), "Jaipur",
			[]order.LineItem{testLineItem(t, 50000, 1)},
			total, total, kernel.ZeroMoney(),
			order.Paid, nil, []kernel.UUID{kernel.NewUUID()}, now, now,
		)

		require.Error(t, err)
	})
}
