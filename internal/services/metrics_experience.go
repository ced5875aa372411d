// internal/services/metrics_experience.go
package services

import (
	"github.com/storesight/analytics-backend/internal/models"
)

// Soft-absence reasons. Delivery and review data are legitimately missing
// for non-delivered or unreviewed orders, so their metrics come back as an
// unavailable variant rather than an error.
const (
	reasonNoDeliveryDimension = "delivery information not available; ensure data includes delivered orders"
	reasonNoDeliveryData      = "no delivery data available for the specified period"
	reasonNoReviewDimension   = "review data not available in sales data"
	reasonNoReviewData        = "no review data available for the specified period"
)

type DeliverySpeedDistribution struct {
	Counts      map[string]int     `json:"counts"`
	Percentages map[string]float64 `json:"percentages"`
}

type DeliveryStats struct {
	AvgDeliveryDays      float64                   `json:"avg_delivery_days"`
	MedianDeliveryDays   float64                   `json:"median_delivery_days"`
	MinDeliveryDays      int                       `json:"min_delivery_days"`
	MaxDeliveryDays      int                       `json:"max_delivery_days"`
	StdDeliveryDays      float64                   `json:"std_delivery_days"`
	TotalOrdersDelivered int                       `json:"total_orders_delivered"`
	Distribution         DeliverySpeedDistribution `json:"delivery_distribution"`
	OnTimeRate           *float64                  `json:"on_time_rate,omitempty"`
}

// DeliveryPerformance is a discriminated result: Stats is nil exactly when
// the metric could not be computed, with Reason saying why. Callers branch
// on Available before reading Stats.
type DeliveryPerformance struct {
	Stats  *DeliveryStats `json:"stats,omitempty"`
	Reason string         `json:"reason,omitempty"`
}

func (p DeliveryPerformance) Available() bool {
	return p.Stats != nil
}

// DeliveryPerformance computes delivery-time statistics over the filtered
// rows that carry a delivery_days value.
func (s *MetricsService) DeliveryPerformance(start, end string) (DeliveryPerformance, error) {
	if !s.view.HasDeliveryDays {
		return DeliveryPerformance{Reason: reasonNoDeliveryDimension}, nil
	}

	rows, err := s.filtered(start, end)
	if err != nil {
		return DeliveryPerformance{}, err
	}

	var delivered []models.SalesRecord
	var days []float64
	for _, r := range rows {
		if r.DeliveryDays != nil {
			delivered = append(delivered, r)
			days = append(days, float64(*r.DeliveryDays))
		}
	}
	if len(delivered) == 0 {
		return DeliveryPerformance{Reason: reasonNoDeliveryData}, nil
	}

	lo, hi := minMax(days)
	stats := &DeliveryStats{
		AvgDeliveryDays:      mean(days),
		MedianDeliveryDays:   median(days),
		MinDeliveryDays:      int(lo),
		MaxDeliveryDays:      int(hi),
		StdDeliveryDays:      stdDev(days),
		TotalOrdersDelivered: distinctOrders(delivered),
		Distribution:         deliveryDistribution(delivered),
	}
	if rate, ok := onTimeRate(rows); ok {
		stats.OnTimeRate = &rate
	}

	return DeliveryPerformance{Stats: stats}, nil
}

// CategorizeDeliverySpeed buckets a delivery time in whole days.
func CategorizeDeliverySpeed(days int) string {
	switch {
	case days <= 3:
		return "1-3 days"
	case days <= 7:
		return "4-7 days"
	case days <= 14:
		return "8-14 days"
	case days > 14:
		return "15+ days"
	default:
		return "Unknown"
	}
}

// deliveryDistribution buckets delivery speed over one row per distinct
// order, keeping the first occurrence.
func deliveryDistribution(rows []models.SalesRecord) DeliverySpeedDistribution {
	seen := make(map[string]bool, len(rows))
	counts := make(map[string]int)
	total := 0
	for _, r := range rows {
		if seen[r.OrderID] {
			continue
		}
		seen[r.OrderID] = true
		counts[CategorizeDeliverySpeed(*r.DeliveryDays)]++
		total++
	}

	percentages := make(map[string]float64, len(counts))
	for cat, n := range counts {
		percentages[cat] = float64(n) / float64(total) * 100
	}

	return DeliverySpeedDistribution{Counts: counts, Percentages: percentages}
}

// onTimeRate is the share of filtered rows delivered on or before their
// estimated date. Rows missing either date count as late; ok is false when
// no row carries an estimated date at all.
func onTimeRate(rows []models.SalesRecord) (float64, bool) {
	hasEstimate := false
	onTime := 0
	for _, r := range rows {
		if r.EstimatedDelivery == nil {
			continue
		}
		hasEstimate = true
		if r.DeliveredDate != nil && !r.DeliveredDate.After(*r.EstimatedDelivery) {
			onTime++
		}
	}
	if !hasEstimate || len(rows) == 0 {
		return 0, false
	}
	return float64(onTime) / float64(len(rows)) * 100, true
}

type ReviewStats struct {
	AvgReviewScore      float64     `json:"avg_review_score"`
	MedianReviewScore   float64     `json:"median_review_score"`
	TotalReviews        int         `json:"total_reviews"`
	Distribution        map[int]int `json:"review_distribution"`
	Pct5Star            float64     `json:"pct_5_star"`
	Pct4Star            float64     `json:"pct_4_5_star"`
	Pct1To2Star         float64     `json:"pct_1_2_star"`
	DeliveryCorrelation *float64    `json:"delivery_review_correlation,omitempty"`
}

// ReviewMetrics is the discriminated result for review statistics; Stats is
// nil when review data is absent.
type ReviewMetrics struct {
	Stats  *ReviewStats `json:"stats,omitempty"`
	Reason string       `json:"reason,omitempty"`
}

func (m ReviewMetrics) Available() bool {
	return m.Stats != nil
}

// ReviewMetrics computes score statistics over the filtered rows after
// de-duplicating to one row per order (keep first). When delivery_days is
// also present, the Pearson correlation between delivery time and score is
// reported over the same de-duplicated orders.
func (s *MetricsService) ReviewMetrics(start, end string) (ReviewMetrics, error) {
	if !s.view.HasReviews {
		return ReviewMetrics{Reason: reasonNoReviewDimension}, nil
	}

	rows, err := s.filtered(start, end)
	if err != nil {
		return ReviewMetrics{}, err
	}

	seen := make(map[string]bool, len(rows))
	var orders []models.SalesRecord
	for _, r := range rows {
		if r.ReviewScore == nil || seen[r.OrderID] {
			continue
		}
		seen[r.OrderID] = true
		orders = append(orders, r)
	}
	if len(orders) == 0 {
		return ReviewMetrics{Reason: reasonNoReviewData}, nil
	}

	scores := make([]float64, len(orders))
	distribution := make(map[int]int)
	fiveStar, fourPlus, twoMinus := 0, 0, 0
	for i, r := range orders {
		score := *r.ReviewScore
		scores[i] = float64(score)
		distribution[score]++
		if score == 5 {
			fiveStar++
		}
		if score >= 4 {
			fourPlus++
		}
		if score <= 2 {
			twoMinus++
		}
	}

	n := float64(len(orders))
	stats := &ReviewStats{
		AvgReviewScore:    mean(scores),
		MedianReviewScore: median(scores),
		TotalReviews:      len(orders),
		Distribution:      distribution,
		Pct5Star:          float64(fiveStar) / n * 100,
		Pct4Star:          float64(fourPlus) / n * 100,
		Pct1To2Star:       float64(twoMinus) / n * 100,
	}

	if s.view.HasDeliveryDays {
		var days, paired []float64
		for _, r := range orders {
			if r.DeliveryDays != nil {
				days = append(days, float64(*r.DeliveryDays))
				paired = append(paired, float64(*r.ReviewScore))
			}
		}
		if corr, ok := pearson(days, paired); ok {
			stats.DeliveryCorrelation = &corr
		}
	}

	return ReviewMetrics{Stats: stats}, nil
}
