// internal/services/metrics_breakdown_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func categoryView() *MetricsService {
	a1 := rec("A", 1, "p1", 100, "2023-01-05 10:00:00")
	a1.ProductCategory = strPtr("electronics")
	a2 := rec("A", 2, "p2", 60, "2023-01-05 10:00:00")
	a2.ProductCategory = strPtr("electronics")
	b := rec("B", 1, "p3", 90, "2023-01-20 10:00:00")
	b.ProductCategory = strPtr("toys")
	c := rec("C", 1, "p4", 50, "2023-02-01 10:00:00")
	c.ProductCategory = strPtr("books")
	orphan := rec("D", 1, "p5", 999, "2023-02-02 10:00:00") // no category

	v := viewOf(a1, a2, b, c, orphan)
	v.HasCategory = true
	return NewMetricsService(v)
}

func TestProductPerformanceRequiresCategory(t *testing.T) {
	m := NewMetricsService(deliveredView())

	_, err := m.ProductPerformance(10, "", "")
	var missing *MissingDimensionError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "product_category_name", missing.Dimension)
}

func TestProductPerformance(t *testing.T) {
	m := categoryView()

	cats, err := m.ProductPerformance(10, "", "")
	require.NoError(t, err)
	require.Len(t, cats, 3)

	// Sorted by revenue descending; the uncategorized row is excluded.
	assert.Equal(t, "electronics", cats[0].Category)
	assert.Equal(t, 160.0, cats[0].Revenue)
	assert.Equal(t, 2, cats[0].ItemsSold)
	assert.Equal(t, 1, cats[0].OrderCount)
	assert.Equal(t, 2, cats[0].UniqueProducts)
	assert.InDelta(t, 80.0, cats[0].AvgPrice, 1e-9)
	assert.InDelta(t, 2.0, cats[0].AvgItemsPerOrder, 1e-9)

	// Shares over the full category set sum to 100.
	var shareSum float64
	for _, c := range cats {
		shareSum += c.RevenueShare
	}
	assert.InDelta(t, 100.0, shareSum, 1e-9)

	for i := 1; i < len(cats); i++ {
		assert.GreaterOrEqual(t, cats[i-1].Revenue, cats[i].Revenue)
	}
}

func TestProductPerformanceTopNKeepsFullShareBase(t *testing.T) {
	m := categoryView()

	all, err := m.ProductPerformance(0, "", "")
	require.NoError(t, err)

	top, err := m.ProductPerformance(2, "", "")
	require.NoError(t, err)
	require.Len(t, top, 2)

	// Truncation must not rescale the shares.
	assert.Equal(t, all[0].RevenueShare, top[0].RevenueShare)
	assert.Equal(t, all[1].RevenueShare, top[1].RevenueShare)
}

func TestProductPerformanceDateFilter(t *testing.T) {
	m := categoryView()

	cats, err := m.ProductPerformance(10, "2023-01-01", "2023-01-31")
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "electronics", cats[0].Category)
	assert.Equal(t, "toys", cats[1].Category)
}

func TestGeographicPerformanceRequiresState(t *testing.T) {
	m := NewMetricsService(deliveredView())

	_, err := m.GeographicPerformance("", "")
	var missing *MissingDimensionError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "customer_state", missing.Dimension)
}

func TestGeographicPerformance(t *testing.T) {
	a1 := rec("A", 1, "p1", 100, "2023-01-05 10:00:00")
	a1.CustomerID = "cust-1"
	a1.CustomerState = strPtr("SP")
	a2 := rec("A", 2, "p2", 60, "2023-01-05 10:00:00")
	a2.CustomerID = "cust-1"
	a2.CustomerState = strPtr("SP")
	b := rec("B", 1, "p3", 90, "2023-01-20 10:00:00")
	b.CustomerID = "cust-2"
	b.CustomerState = strPtr("SP")
	c := rec("C", 1, "p4", 40, "2023-02-01 10:00:00")
	c.CustomerID = "cust-3"
	c.CustomerState = strPtr("RJ")

	v := viewOf(a1, a2, b, c)
	v.HasGeography = true
	m := NewMetricsService(v)

	states, err := m.GeographicPerformance("", "")
	require.NoError(t, err)
	require.Len(t, states, 2)

	sp := states[0]
	assert.Equal(t, "SP", sp.State)
	assert.Equal(t, 250.0, sp.Revenue)
	assert.Equal(t, 2, sp.OrderCount)
	assert.Equal(t, 2, sp.UniqueCustomers)
	assert.InDelta(t, 125.0, sp.AvgOrderValue, 1e-9)
	assert.InDelta(t, 125.0, sp.RevenuePerCustomer, 1e-9)

	var shareSum float64
	for _, s := range states {
		shareSum += s.RevenueShare
	}
	assert.InDelta(t, 100.0, shareSum, 1e-9)
}
