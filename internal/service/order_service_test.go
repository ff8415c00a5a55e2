package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/cercosdelsur/storefront-api/internal/domain"
	"github.com/cercosdelsur/storefront-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestOrderService(t *testing.T) *OrderService {
	store := newTestKVStore(t)
	rules := domain.CustomerFieldRules{
		Required: testBusinessDefaults.RequiredCustomerFields,
		Optional: testBusinessDefaults.OptionalCustomerFields,
	}
	numbers := NewNumberService()
	numbers.nowFunc = func() time.Time { return testNow }
	svc := NewOrderService(repository.NewOrderRepository(store), numbers, rules, zap.NewNop())
	svc.nowFunc = func() time.Time { return testNow }
	return svc
}

func testCustomer() map[string]string {
	return map[string]string{"name": "Juan Pérez", "phone": "2995550123"}
}

func acceptedQuotation(t *testing.T) *domain.Quotation {
	q := domain.NewQuotation()
	q.ID = "COT-1756512000000-4821"
	require.NoError(t, q.AddItem(domain.Product{ID: "P001", Name: "Poste de quebracho", Category: "postes"}, 10, 3500))
	return q
}

func TestOrderService_CreateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("from a quotation", func(t *testing.T) {
		svc := newTestOrderService(t)

		order, err := svc.CreateOrder(ctx, acceptedQuotation(t), testCustomer())
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(order.ID, "ORD-20260830-"))
		require.NotNil(t, order.QuotationID)
		assert.Equal(t, "COT-1756512000000-4821", *order.QuotationID)
		assert.Equal(t, 35000.0, order.Total)
		assert.Equal(t, domain.OrderStatusPending, order.Status)
		require.Len(t, order.StatusHistory, 1)
		assert.Equal(t, "Pedido creado", order.StatusHistory[0].Note)

		stored, err := svc.GetByID(ctx, order.ID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, order.Total, stored.Total)
	})

	t.Run("direct order without a quotation", func(t *testing.T) {
		svc := newTestOrderService(t)

		order, err := svc.CreateOrder(ctx, nil, testCustomer())
		require.NoError(t, err)
		assert.Nil(t, order.QuotationID)
		assert.Empty(t, order.Items)
		assert.Zero(t, order.Total)
	})

	t.Run("missing required customer field", func(t *testing.T) {
		svc := newTestOrderService(t)

		_, err := svc.CreateOrder(ctx, nil, map[string]string{"name": "Juan"})
		require.Error(t, err)

		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "phone", verr.Field)

		orders, err := svc.GetAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, orders)
	})

	t.Run("generated ids are unique", func(t *testing.T) {
		svc := newTestOrderService(t)

		seen := map[string]bool{}
		for i := 0; i < 20; i++ {
			order, err := svc.CreateOrder(ctx, nil, testCustomer())
			require.NoError(t, err)
			assert.False(t, seen[order.ID], "duplicate id %s", order.ID)
			seen[order.ID] = true
		}
	})
}

func TestOrderService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	svc := newTestOrderService(t)

	order, err := svc.CreateOrder(ctx, acceptedQuotation(t), testCustomer())
	require.NoError(t, err)

	t.Run("full lifecycle appends history", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, order.ID, domain.OrderStatusConfirmed, "")
		require.NoError(t, err)
		updated, err := svc.UpdateStatus(ctx, order.ID, domain.OrderStatusCompleted, "")
		require.NoError(t, err)

		assert.Equal(t, domain.OrderStatusCompleted, updated.Status)
		require.Len(t, updated.StatusHistory, 3)
		assert.Equal(t, "Estado actualizado a completed", updated.StatusHistory[2].Note)

		stored, err := svc.GetByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Len(t, stored.StatusHistory, 3)
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, order.ID, domain.OrderStatus("shipped"), "")
		require.Error(t, err)

		var verr *domain.ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("unknown order", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, "ORD-20260830-9999", domain.OrderStatusConfirmed, "")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestOrderService_Queries(t *testing.T) {
	ctx := context.Background()
	svc := newTestOrderService(t)

	first, err := svc.CreateOrder(ctx, acceptedQuotation(t), testCustomer())
	require.NoError(t, err)

	svc.nowFunc = func() time.Time { return testNow.AddDate(0, 0, 5) }
	second, err := svc.CreateOrder(ctx, nil, map[string]string{"name": "Ana", "phone": "2995550999"})
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, second.ID, domain.OrderStatusConfirmed, "")
	require.NoError(t, err)

	t.Run("by status", func(t *testing.T) {
		pending, err := svc.GetByStatus(ctx, domain.OrderStatusPending)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, first.ID, pending[0].ID)
	})

	t.Run("by status rejects unknown values", func(t *testing.T) {
		_, err := svc.GetByStatus(ctx, domain.OrderStatus("shipped"))
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("by date range is inclusive", func(t *testing.T) {
		orders, err := svc.GetByDateRange(ctx, testNow, testNow)
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, first.ID, orders[0].ID)

		orders, err = svc.GetByDateRange(ctx, testNow, testNow.AddDate(0, 0, 5))
		require.NoError(t, err)
		assert.Len(t, orders, 2)
	})

	t.Run("by customer phone", func(t *testing.T) {
		orders, err := svc.GetByCustomer(ctx, "2995550999")
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, second.ID, orders[0].ID)

		orders, err = svc.GetByCustomer(ctx, "0000000000")
		require.NoError(t, err)
		assert.Empty(t, orders)
	})
}

func TestOrderService_Delete(t *testing.T) {
	ctx := context.Background()
	svc := newTestOrderService(t)

	order, err := svc.CreateOrder(ctx, nil, testCustomer())
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, "ORD-20260830-9999"), ErrNotFound)

	require.NoError(t, svc.Delete(ctx, order.ID))
	stored, err := svc.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestOrderService_GetStatistics(t *testing.T) {
	ctx := context.Background()
	svc := newTestOrderService(t)

	first, err := svc.CreateOrder(ctx, acceptedQuotation(t), testCustomer())
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, first.ID, domain.OrderStatusCompleted, "")
	require.NoError(t, err)

	cancelled, err := svc.CreateOrder(ctx, acceptedQuotation(t), testCustomer())
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, cancelled.ID, domain.OrderStatusCancelled, "")
	require.NoError(t, err)

	stats, err := svc.GetStatistics(ctx)
	require.NoError(t, err)

	// Cancelled orders appear in the per-status counts but never in the
	// month totals.
	assert.Equal(t, 1, stats.MonthOrderCount)
	assert.Equal(t, 35000.0, stats.MonthRevenue)
	assert.Equal(t, 1, stats.ByStatus[domain.OrderStatusCompleted])
	assert.Equal(t, 1, stats.ByStatus[domain.OrderStatusCancelled])
	assert.Equal(t, 0, stats.ByStatus[domain.OrderStatusPending])
}

func TestOrderService_CleanOldOrders(t *testing.T) {
	ctx := context.Background()
	svc := newTestOrderService(t)

	oldDone, err := svc.CreateOrder(ctx, nil, testCustomer())
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, oldDone.ID, domain.OrderStatusCompleted, "")
	require.NoError(t, err)

	oldOpen, err := svc.CreateOrder(ctx, nil, testCustomer())
	require.NoError(t, err)

	svc.nowFunc = func() time.Time { return testNow.AddDate(0, 0, 120) }
	recent, err := svc.CreateOrder(ctx, nil, testCustomer())
	require.NoError(t, err)

	removed, err := svc.CleanOldOrders(ctx, 90)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	orders, err := svc.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)

	ids := []string{orders[0].ID, orders[1].ID}
	assert.Contains(t, ids, oldOpen.ID, "open orders survive age-based cleanup")
	assert.Contains(t, ids, recent.ID)
	assert.NotContains(t, ids, oldDone.ID)
}
