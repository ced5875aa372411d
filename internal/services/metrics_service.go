// internal/services/metrics_service.go
package services

import (
	"sort"
	"time"

	"github.com/storesight/analytics-backend/internal/dataset"
	"github.com/storesight/analytics-backend/internal/models"
)

// MetricsService computes aggregate business metrics over one sales view.
// The view is treated as an immutable snapshot: every operation filters into
// fresh slices, so one service can safely serve concurrent readers.
//
// All operations take optional start/end bounds (YYYY-MM-DD, inclusive) and
// re-filter internally; passing bounds the view was already filtered by is a
// harmless no-op.
type MetricsService struct {
	view *dataset.SalesView
}

func NewMetricsService(view *dataset.SalesView) *MetricsService {
	return &MetricsService{view: view}
}

// View exposes the underlying sales view for callers that need record-level
// access alongside the aggregates.
func (s *MetricsService) View() *dataset.SalesView {
	return s.view
}

func purchaseTime(r models.SalesRecord) *time.Time {
	return r.PurchaseTimestamp
}

func (s *MetricsService) filtered(start, end string) ([]models.SalesRecord, error) {
	return dataset.FilterByDate(s.view.Records, purchaseTime, start, end)
}

// TotalRevenue sums item prices over the filtered rows.
func (s *MetricsService) TotalRevenue(start, end string) (float64, error) {
	rows, err := s.filtered(start, end)
	if err != nil {
		return 0, err
	}

	var total float64
	for _, r := range rows {
		total += r.Price
	}
	return total, nil
}

type PeriodUnit string

const (
	PeriodDay     PeriodUnit = "day"
	PeriodWeek    PeriodUnit = "week"
	PeriodMonth   PeriodUnit = "month"
	PeriodQuarter PeriodUnit = "quarter"
	PeriodYear    PeriodUnit = "year"
)

type PeriodRevenue struct {
	Period     time.Time `json:"period"`
	Revenue    float64   `json:"revenue"`
	OrderCount int       `json:"order_count"`
	// AvgOrderValue here is the mean price per line item, not per distinct
	// order. Downstream consumers depend on that figure; see OrderMetrics
	// for the per-order average.
	AvgOrderValue float64 `json:"avg_order_value"`
}

// RevenueByPeriod buckets the filtered rows by the calendar period of their
// purchase timestamp. Rows without a timestamp are skipped. An unrecognized
// unit falls back to monthly buckets.
func (s *MetricsService) RevenueByPeriod(unit PeriodUnit, start, end string) ([]PeriodRevenue, error) {
	rows, err := s.filtered(start, end)
	if err != nil {
		return nil, err
	}

	type bucket struct {
		revenue float64
		count   int
	}
	buckets := make(map[time.Time]*bucket)
	for _, r := range rows {
		if r.PurchaseTimestamp == nil {
			continue
		}
		key := periodStart(*r.PurchaseTimestamp, unit)
		b := buckets[key]
		if b == nil {
			b = &bucket{}
			buckets[key] = b
		}
		b.revenue += r.Price
		b.count++
	}

	out := make([]PeriodRevenue, 0, len(buckets))
	for key, b := range buckets {
		out = append(out, PeriodRevenue{
			Period:        key,
			Revenue:       b.revenue,
			OrderCount:    b.count,
			AvgOrderValue: b.revenue / float64(b.count),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period.Before(out[j].Period) })

	return out, nil
}

// periodStart truncates a timestamp to the first instant of its calendar
// period. Weeks start on Monday.
func periodStart(t time.Time, unit PeriodUnit) time.Time {
	switch unit {
	case PeriodDay:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	case PeriodWeek:
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case PeriodQuarter:
		q := (int(t.Month()) - 1) / 3
		return time.Date(t.Year(), time.Month(q*3+1), 1, 0, 0, 0, 0, t.Location())
	case PeriodYear:
		return time.Date(t.Year(), 1, 1, 0, 0, 0, 0, t.Location())
	default:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	}
}

// orderTotal is the per-order aggregation every order-granularity metric
// starts from.
type orderTotal struct {
	orderID        string
	value          float64
	items          int
	uniqueProducts int
	status         models.OrderStatus
}

// groupByOrder folds rows into one entry per distinct order, preserving
// first-occurrence order.
func groupByOrder(rows []models.SalesRecord) []orderTotal {
	index := make(map[string]int, len(rows))
	products := make(map[string]map[string]bool, len(rows))
	var totals []orderTotal

	for _, r := range rows {
		i, ok := index[r.OrderID]
		if !ok {
			i = len(totals)
			index[r.OrderID] = i
			totals = append(totals, orderTotal{orderID: r.OrderID, status: r.OrderStatus})
			products[r.OrderID] = make(map[string]bool)
		}
		totals[i].value += r.Price
		totals[i].items++
		if !products[r.OrderID][r.ProductID] {
			products[r.OrderID][r.ProductID] = true
			totals[i].uniqueProducts++
		}
	}
	return totals
}

func distinctOrders(rows []models.SalesRecord) int {
	seen := make(map[string]bool, len(rows))
	for _, r := range rows {
		seen[r.OrderID] = true
	}
	return len(seen)
}
