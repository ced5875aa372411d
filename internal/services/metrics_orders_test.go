// internal/services/metrics_orders_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storesight/analytics-backend/internal/models"
)

func TestOrderMetricsAggregatesPerOrder(t *testing.T) {
	m := NewMetricsService(deliveredView())

	out, err := m.OrderMetrics("", "")
	require.NoError(t, err)

	assert.Equal(t, 2, out.TotalOrders)
	assert.Equal(t, 150.0, out.TotalRevenue)
	assert.Equal(t, 75.0, out.AvgOrderValue)
	assert.Equal(t, 75.0, out.MedianOrderValue)
	assert.Equal(t, 50.0, out.MinOrderValue)
	assert.Equal(t, 100.0, out.MaxOrderValue)
	assert.Equal(t, 1.0, out.AvgItemsPerOrder)
	assert.Equal(t, 1.0, out.AvgUniqueProductsPerOrder)
}

func TestOrderMetricsMultiItemOrders(t *testing.T) {
	view := viewOf(
		rec("A", 1, "p1", 40, "2023-01-05 10:00:00"),
		rec("A", 2, "p1", 40, "2023-01-05 10:00:00"),
		rec("A", 3, "p2", 20, "2023-01-05 10:00:00"),
		rec("B", 1, "p3", 60, "2023-01-10 10:00:00"),
	)
	m := NewMetricsService(view)

	out, err := m.OrderMetrics("", "")
	require.NoError(t, err)

	assert.Equal(t, 2, out.TotalOrders)
	assert.Equal(t, 160.0, out.TotalRevenue)
	assert.Equal(t, 80.0, out.AvgOrderValue)
	// Order A has 3 items over 2 products, B has 1 item over 1 product.
	assert.Equal(t, 2.0, out.AvgItemsPerOrder)
	assert.Equal(t, 1.5, out.AvgUniqueProductsPerOrder)
}

func TestOrderMetricsStatusDistribution(t *testing.T) {
	shipped := rec("C", 1, "p1", 30, "2023-01-12 10:00:00")
	shipped.OrderStatus = models.OrderStatusShipped
	unknown := rec("D", 1, "p1", 10, "2023-01-13 10:00:00")
	unknown.OrderStatus = ""

	view := viewOf(
		rec("A", 1, "p1", 100, "2023-01-05 10:00:00"),
		rec("B", 1, "p2", 50, "2023-01-10 10:00:00"),
		shipped,
		unknown,
	)
	m := NewMetricsService(view)

	out, err := m.OrderMetrics("", "")
	require.NoError(t, err)

	assert.Equal(t, 4, out.TotalOrders)
	// Orders without a status stay out of the breakdown.
	assert.Equal(t, map[string]int{"delivered": 2, "shipped": 1}, out.StatusDistribution)
	assert.InDelta(t, 200.0/3.0, out.StatusPercentages["delivered"], 1e-9)
	assert.InDelta(t, 100.0/3.0, out.StatusPercentages["shipped"], 1e-9)
}

func TestOrderMetricsEmptyPeriod(t *testing.T) {
	m := NewMetricsService(deliveredView())

	out, err := m.OrderMetrics("2020-01-01", "2020-12-31")
	require.NoError(t, err)

	assert.Zero(t, out.TotalOrders)
	assert.Zero(t, out.TotalRevenue)
	assert.Nil(t, out.StatusDistribution)
}
