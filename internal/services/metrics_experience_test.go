// internal/services/metrics_experience_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storesight/analytics-backend/internal/models"
)

// deliveredRec builds a delivered record with explicit delivery days and a
// review score (0 means unreviewed).
func deliveredRec(orderID string, item int, days int, score int, purchase string) models.SalesRecord {
	r := rec(orderID, item, "p-"+orderID, 10, purchase)
	r.DeliveryDays = intPtr(days)
	if score > 0 {
		r.ReviewScore = intPtr(score)
	}
	return r
}

func TestDeliveryPerformanceWithoutDimension(t *testing.T) {
	m := NewMetricsService(viewOf(rec("A", 1, "p1", 10, "2023-01-05 10:00:00")))

	perf, err := m.DeliveryPerformance("", "")
	require.NoError(t, err)
	assert.False(t, perf.Available())
	assert.Nil(t, perf.Stats)
	assert.Contains(t, perf.Reason, "delivery information not available")
}

func TestDeliveryPerformanceEmptyPeriod(t *testing.T) {
	v := deliveredView()
	m := NewMetricsService(v)

	perf, err := m.DeliveryPerformance("2020-01-01", "2020-12-31")
	require.NoError(t, err)
	assert.False(t, perf.Available())
	assert.Contains(t, perf.Reason, "no delivery data")
}

func TestDeliveryPerformanceStats(t *testing.T) {
	v := viewOf(
		deliveredRec("A", 1, 2, 0, "2023-01-05 10:00:00"),
		deliveredRec("A", 2, 2, 0, "2023-01-05 10:00:00"),
		deliveredRec("B", 1, 6, 0, "2023-01-10 10:00:00"),
		deliveredRec("C", 1, 12, 0, "2023-01-15 10:00:00"),
		deliveredRec("D", 1, 20, 0, "2023-01-20 10:00:00"),
	)
	v.HasDeliveryDays = true
	m := NewMetricsService(v)

	perf, err := m.DeliveryPerformance("", "")
	require.NoError(t, err)
	require.True(t, perf.Available())
	stats := perf.Stats

	assert.Equal(t, 2, stats.MinDeliveryDays)
	assert.Equal(t, 20, stats.MaxDeliveryDays)
	assert.LessOrEqual(t, float64(stats.MinDeliveryDays), stats.MedianDeliveryDays)
	assert.LessOrEqual(t, stats.MedianDeliveryDays, float64(stats.MaxDeliveryDays))
	assert.Equal(t, 4, stats.TotalOrdersDelivered)
	assert.InDelta(t, 8.4, stats.AvgDeliveryDays, 1e-9)

	// Bucket counts are per distinct order and sum to the delivered total.
	counts := stats.Distribution.Counts
	assert.Equal(t, 1, counts["1-3 days"])
	assert.Equal(t, 1, counts["4-7 days"])
	assert.Equal(t, 1, counts["8-14 days"])
	assert.Equal(t, 1, counts["15+ days"])

	total := 0
	for _, n := range counts {
		total += n
	}
	assert.Equal(t, stats.TotalOrdersDelivered, total)

	var pctSum float64
	for _, p := range stats.Distribution.Percentages {
		pctSum += p
	}
	assert.InDelta(t, 100.0, pctSum, 1e-9)
}

func TestDeliveryPerformanceOnTimeRate(t *testing.T) {
	m := NewMetricsService(deliveredView())

	perf, err := m.DeliveryPerformance("", "")
	require.NoError(t, err)
	require.True(t, perf.Available())

	// A delivered before its estimate, B after: 1 of 2 rows on time.
	require.NotNil(t, perf.Stats.OnTimeRate)
	assert.InDelta(t, 50.0, *perf.Stats.OnTimeRate, 1e-9)
}

func TestCategorizeDeliverySpeed(t *testing.T) {
	assert.Equal(t, "1-3 days", CategorizeDeliverySpeed(1))
	assert.Equal(t, "1-3 days", CategorizeDeliverySpeed(3))
	assert.Equal(t, "4-7 days", CategorizeDeliverySpeed(7))
	assert.Equal(t, "8-14 days", CategorizeDeliverySpeed(14))
	assert.Equal(t, "15+ days", CategorizeDeliverySpeed(15))
}

func TestReviewMetricsWithoutDimension(t *testing.T) {
	m := NewMetricsService(viewOf(rec("A", 1, "p1", 10, "2023-01-05 10:00:00")))

	metrics, err := m.ReviewMetrics("", "")
	require.NoError(t, err)
	assert.False(t, metrics.Available())
	assert.Contains(t, metrics.Reason, "review data not available")
}

func TestReviewMetricsEmptyPeriod(t *testing.T) {
	v := viewOf(deliveredRec("A", 1, 3, 5, "2023-01-05 10:00:00"))
	v.HasDeliveryDays = true
	v.HasReviews = true
	m := NewMetricsService(v)

	metrics, err := m.ReviewMetrics("2020-01-01", "2020-12-31")
	require.NoError(t, err)
	assert.False(t, metrics.Available())
	assert.Contains(t, metrics.Reason, "no review data")
}

func TestReviewMetricsDeduplicatesPerOrder(t *testing.T) {
	v := viewOf(
		deliveredRec("A", 1, 3, 5, "2023-01-05 10:00:00"),
		deliveredRec("A", 2, 3, 5, "2023-01-05 10:00:00"), // same order, second item
		deliveredRec("B", 1, 10, 4, "2023-01-10 10:00:00"),
		deliveredRec("C", 1, 25, 1, "2023-01-15 10:00:00"),
		deliveredRec("D", 1, 4, 0, "2023-01-20 10:00:00"), // unreviewed
	)
	v.HasDeliveryDays = true
	v.HasReviews = true
	m := NewMetricsService(v)

	metrics, err := m.ReviewMetrics("", "")
	require.NoError(t, err)
	require.True(t, metrics.Available())
	stats := metrics.Stats

	assert.Equal(t, 3, stats.TotalReviews)
	assert.InDelta(t, 10.0/3.0, stats.AvgReviewScore, 1e-9)
	assert.Equal(t, 4.0, stats.MedianReviewScore)
	assert.Equal(t, map[int]int{1: 1, 4: 1, 5: 1}, stats.Distribution)
	assert.InDelta(t, 100.0/3.0, stats.Pct5Star, 1e-9)
	assert.InDelta(t, 200.0/3.0, stats.Pct4Star, 1e-9)
	assert.InDelta(t, 100.0/3.0, stats.Pct1To2Star, 1e-9)

	// Longer deliveries score worse, so the correlation is negative.
	require.NotNil(t, stats.DeliveryCorrelation)
	assert.Negative(t, *stats.DeliveryCorrelation)
}

func TestReviewMetricsNoCorrelationWithoutVariance(t *testing.T) {
	v := viewOf(
		deliveredRec("A", 1, 5, 4, "2023-01-05 10:00:00"),
		deliveredRec("B", 1, 5, 2, "2023-01-10 10:00:00"),
	)
	v.HasDeliveryDays = true
	v.HasReviews = true
	m := NewMetricsService(v)

	metrics, err := m.ReviewMetrics("", "")
	require.NoError(t, err)
	require.True(t, metrics.Available())
	assert.Nil(t, metrics.Stats.DeliveryCorrelation)
}
