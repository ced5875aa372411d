// internal/services/analytics_service.go
package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/storesight/analytics-backend/internal/dataset"
	"github.com/storesight/analytics-backend/internal/models"
)

// viewBundle is one fully assembled set of sales views: the delivered sales
// view joined with reviews, plus the product and geography enrichments.
type viewBundle struct {
	sales     *MetricsService
	products  *MetricsService
	geography *MetricsService
	builtAt   time.Time
}

// AnalyticsService assembles sales views from the loader and hands out
// MetricsService instances over them. The assembled bundle is memoized with
// a TTL so the presentation layer does not re-join the datasets on every
// request; the underlying views stay immutable, so concurrent readers are
// safe.
type AnalyticsService struct {
	loader *dataset.Loader
	ttl    time.Duration

	mtx    sync.RWMutex
	bundle *viewBundle
}

func NewAnalyticsService(loader *dataset.Loader, ttl time.Duration) *AnalyticsService {
	return &AnalyticsService{loader: loader, ttl: ttl}
}

func (s *AnalyticsService) views() (*viewBundle, error) {
	s.mtx.RLock()
	b := s.bundle
	s.mtx.RUnlock()
	if b != nil && time.Since(b.builtAt) < s.ttl {
		return b, nil
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()
	if s.bundle != nil && time.Since(s.bundle.builtAt) < s.ttl {
		return s.bundle, nil
	}

	start := time.Now()
	sales, err := s.loader.BuildSalesView(dataset.SalesViewOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to build sales view: %w", err)
	}
	withReviews, err := s.loader.EnrichWithReviews(sales)
	if err != nil {
		return nil, fmt.Errorf("failed to join reviews: %w", err)
	}
	withProducts, err := s.loader.EnrichWithProducts(sales)
	if err != nil {
		return nil, fmt.Errorf("failed to join products: %w", err)
	}
	withGeography, err := s.loader.EnrichWithGeography(sales)
	if err != nil {
		return nil, fmt.Errorf("failed to join customers: %w", err)
	}

	s.bundle = &viewBundle{
		sales:     NewMetricsService(withReviews),
		products:  NewMetricsService(withProducts),
		geography: NewMetricsService(withGeography),
		builtAt:   time.Now(),
	}

	logrus.WithFields(logrus.Fields{
		"records":  len(sales.Records),
		"duration": time.Since(start).Milliseconds(),
	}).Info("Sales views assembled")

	return s.bundle, nil
}

// SalesMetrics returns the metrics service over the delivered sales view
// enriched with review scores.
func (s *AnalyticsService) SalesMetrics() (*MetricsService, error) {
	b, err := s.views()
	if err != nil {
		return nil, err
	}
	return b.sales, nil
}

// ProductMetrics returns the metrics service over the category-enriched view.
func (s *AnalyticsService) ProductMetrics() (*MetricsService, error) {
	b, err := s.views()
	if err != nil {
		return nil, err
	}
	return b.products, nil
}

// GeographyMetrics returns the metrics service over the geography-enriched
// view.
func (s *AnalyticsService) GeographyMetrics() (*MetricsService, error) {
	b, err := s.views()
	if err != nil {
		return nil, err
	}
	return b.geography, nil
}

// DatasetRange reports the purchase-timestamp span of the sales view, for
// date-picker bounds.
func (s *AnalyticsService) DatasetRange() (dataset.DateRangeInfo, error) {
	b, err := s.views()
	if err != nil {
		return dataset.DateRangeInfo{}, err
	}
	info, _ := dataset.DateRange(b.sales.View().Records, purchaseTime)
	return info, nil
}

type DashboardSummary struct {
	StartDate       string   `json:"start_date"`
	EndDate         string   `json:"end_date"`
	PreviousStart   string   `json:"previous_start"`
	PreviousEnd     string   `json:"previous_end"`
	TotalRevenue    float64  `json:"total_revenue"`
	RevenueTrend    float64  `json:"revenue_trend_pct"`
	TotalOrders     int      `json:"total_orders"`
	OrdersTrend     float64  `json:"orders_trend_pct"`
	AvgOrderValue   float64  `json:"avg_order_value"`
	AOVTrend        float64  `json:"aov_trend_pct"`
	AvgDeliveryDays *float64 `json:"avg_delivery_days,omitempty"`
	DeliveryTrend   float64  `json:"delivery_trend_pct"`
	AvgReviewScore  *float64 `json:"avg_review_score,omitempty"`
	ReviewTrend     float64  `json:"review_trend_pct"`
}

// DashboardSummary computes the KPI bundle for one date window compared
// against the window of equal length before it: revenue, distinct orders and
// per-order average value with their trends, plus mean delivery time and
// mean review score over the window's line items.
func (s *AnalyticsService) DashboardSummary(start, end string) (*DashboardSummary, error) {
	m, err := s.SalesMetrics()
	if err != nil {
		return nil, err
	}

	revenue, err := m.PeriodComparison(ComparisonRevenue, start, end)
	if err != nil {
		return nil, err
	}
	orders, err := m.PeriodComparison(ComparisonOrders, start, end)
	if err != nil {
		return nil, err
	}
	aov, err := m.PeriodComparison(ComparisonAOV, start, end)
	if err != nil {
		return nil, err
	}

	summary := &DashboardSummary{
		StartDate:     start,
		EndDate:       end,
		PreviousStart: revenue.PreviousStart,
		PreviousEnd:   revenue.PreviousEnd,
		TotalRevenue:  revenue.CurrentValue,
		RevenueTrend:  revenue.ChangePct,
		TotalOrders:   int(orders.CurrentValue),
		OrdersTrend:   orders.ChangePct,
		AvgOrderValue: aov.CurrentValue,
		AOVTrend:      aov.ChangePct,
	}

	current, err := m.filtered(start, end)
	if err != nil {
		return nil, err
	}
	previous, err := m.filtered(revenue.PreviousStart, revenue.PreviousEnd)
	if err != nil {
		return nil, err
	}

	if avg, ok := meanDeliveryDays(current); ok {
		summary.AvgDeliveryDays = &avg
		if prev, ok := meanDeliveryDays(previous); ok {
			summary.DeliveryTrend = pctChange(avg, prev)
		}
	}
	if avg, ok := meanReviewScore(current); ok {
		summary.AvgReviewScore = &avg
		if prev, ok := meanReviewScore(previous); ok {
			summary.ReviewTrend = pctChange(avg, prev)
		}
	}

	return summary, nil
}

func meanDeliveryDays(rows []models.SalesRecord) (float64, bool) {
	var days []float64
	for _, r := range rows {
		if r.DeliveryDays != nil {
			days = append(days, float64(*r.DeliveryDays))
		}
	}
	if len(days) == 0 {
		return 0, false
	}
	return mean(days), true
}

func meanReviewScore(rows []models.SalesRecord) (float64, bool) {
	var scores []float64
	for _, r := range rows {
		if r.ReviewScore != nil {
			scores = append(scores, float64(*r.ReviewScore))
		}
	}
	if len(scores) == 0 {
		return 0, false
	}
	return mean(scores), true
}
