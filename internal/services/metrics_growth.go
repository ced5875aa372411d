// internal/services/metrics_growth.go
package services

import (
	"fmt"
	"sort"

	"github.com/storesight/analytics-backend/internal/dataset"
	"github.com/storesight/analytics-backend/internal/models"
)

type GrowthMetric string

const (
	GrowthMetricRevenue       GrowthMetric = "revenue"
	GrowthMetricOrders        GrowthMetric = "orders"
	GrowthMetricAvgOrderValue GrowthMetric = "avg_order_value"
)

type YoYGrowth struct {
	CurrentYear    int          `json:"current_year"`
	PreviousYear   int          `json:"previous_year"`
	CurrentValue   float64      `json:"current_value"`
	PreviousValue  float64      `json:"previous_value"`
	AbsoluteChange float64      `json:"absolute_change"`
	GrowthRate     float64      `json:"growth_rate"`
	Metric         GrowthMetric `json:"metric"`
}

// YoYGrowth compares one metric across two years. The growth rate is 0 when
// the previous year's value is zero or the year has no data.
func (s *MetricsService) YoYGrowth(currentYear, previousYear int, metric GrowthMetric) (*YoYGrowth, error) {
	current, err := s.yearMetric(currentYear, metric)
	if err != nil {
		return nil, err
	}
	previous, err := s.yearMetric(previousYear, metric)
	if err != nil {
		return nil, err
	}

	return &YoYGrowth{
		CurrentYear:    currentYear,
		PreviousYear:   previousYear,
		CurrentValue:   current,
		PreviousValue:  previous,
		AbsoluteChange: current - previous,
		GrowthRate:     pctChange(current, previous),
		Metric:         metric,
	}, nil
}

func (s *MetricsService) yearMetric(year int, metric GrowthMetric) (float64, error) {
	var rows []models.SalesRecord
	for _, r := range s.view.Records {
		if r.Year == year {
			rows = append(rows, r)
		}
	}

	switch metric {
	case GrowthMetricRevenue:
		var total float64
		for _, r := range rows {
			total += r.Price
		}
		return total, nil
	case GrowthMetricOrders:
		return float64(distinctOrders(rows)), nil
	case GrowthMetricAvgOrderValue:
		totals := groupByOrder(rows)
		if len(totals) == 0 {
			return 0, nil
		}
		var sum float64
		for _, t := range totals {
			sum += t.value
		}
		return sum / float64(len(totals)), nil
	default:
		return 0, fmt.Errorf("unknown growth metric %q", metric)
	}
}

type MonthlyGrowth struct {
	Month            int      `json:"month"`
	Revenue          float64  `json:"revenue"`
	OrderCount       int      `json:"order_count"`
	AvgOrderValue    float64  `json:"avg_order_value"`
	RevenueMoMGrowth *float64 `json:"revenue_mom_growth"`
	OrdersMoMGrowth  *float64 `json:"orders_mom_growth"`
	RevenueMA3       *float64 `json:"revenue_ma3,omitempty"`
	RevenueMA3Growth *float64 `json:"revenue_ma3_growth,omitempty"`
}

// MoMGrowth computes monthly revenue and order counts for one year with
// percent change against the preceding month in the sequence. The first
// month's growth values stay nil: there is no prior month to compare to and
// reporting 0 would fake a flat data point. With smoothing on, a trailing
// 3-month moving average of revenue and its growth series are added, nil
// until enough months exist.
func (s *MetricsService) MoMGrowth(year int, smoothing bool) ([]MonthlyGrowth, error) {
	type monthAgg struct {
		revenue float64
		orders  map[string]bool
	}
	byMonth := make(map[int]*monthAgg)
	for _, r := range s.view.Records {
		if r.Year != year {
			continue
		}
		m := byMonth[r.Month]
		if m == nil {
			m = &monthAgg{orders: make(map[string]bool)}
			byMonth[r.Month] = m
		}
		m.revenue += r.Price
		m.orders[r.OrderID] = true
	}

	months := make([]int, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Ints(months)

	out := make([]MonthlyGrowth, 0, len(months))
	for i, m := range months {
		agg := byMonth[m]
		row := MonthlyGrowth{
			Month:      m,
			Revenue:    agg.revenue,
			OrderCount: len(agg.orders),
		}
		if row.OrderCount > 0 {
			row.AvgOrderValue = row.Revenue / float64(row.OrderCount)
		}
		if i > 0 {
			prev := out[i-1]
			rev := pctChange(row.Revenue, prev.Revenue)
			ord := pctChange(float64(row.OrderCount), float64(prev.OrderCount))
			row.RevenueMoMGrowth = &rev
			row.OrdersMoMGrowth = &ord
		}
		out = append(out, row)
	}

	if smoothing {
		applySmoothing(out)
	}

	return out, nil
}

// applySmoothing fills the trailing 3-month moving average columns in place.
func applySmoothing(rows []MonthlyGrowth) {
	for i := range rows {
		if i < 2 {
			continue
		}
		ma := (rows[i-2].Revenue + rows[i-1].Revenue + rows[i].Revenue) / 3
		rows[i].RevenueMA3 = &ma
		if prev := rows[i-1].RevenueMA3; prev != nil {
			g := pctChange(ma, *prev)
			rows[i].RevenueMA3Growth = &g
		}
	}
}

type PeriodComparison struct {
	Metric        string  `json:"metric"`
	CurrentStart  string  `json:"current_start"`
	CurrentEnd    string  `json:"current_end"`
	PreviousStart string  `json:"previous_start"`
	PreviousEnd   string  `json:"previous_end"`
	CurrentValue  float64 `json:"current_value"`
	PreviousValue float64 `json:"previous_value"`
	ChangePct     float64 `json:"change_pct"`
}

const (
	ComparisonRevenue = "revenue"
	ComparisonOrders  = "orders"
	ComparisonAOV     = "aov"
)

// PeriodComparison compares a metric over [start, end] against the window of
// equal length immediately before it.
func (s *MetricsService) PeriodComparison(metric, start, end string) (*PeriodComparison, error) {
	prevStart, prevEnd, err := previousWindow(start, end)
	if err != nil {
		return nil, err
	}

	current, err := s.windowMetric(metric, start, end)
	if err != nil {
		return nil, err
	}
	previous, err := s.windowMetric(metric, prevStart, prevEnd)
	if err != nil {
		return nil, err
	}

	return &PeriodComparison{
		Metric:        metric,
		CurrentStart:  start,
		CurrentEnd:    end,
		PreviousStart: prevStart,
		PreviousEnd:   prevEnd,
		CurrentValue:  current,
		PreviousValue: previous,
		ChangePct:     pctChange(current, previous),
	}, nil
}

// previousWindow shifts [start, end] back by its own day length, ending the
// day before start.
func previousWindow(start, end string) (string, string, error) {
	startT, err := dataset.ParseDay(start)
	if err != nil {
		return "", "", err
	}
	endT, err := dataset.ParseDay(end)
	if err != nil {
		return "", "", err
	}
	length := int(endT.Sub(startT).Hours() / 24)

	prevStart := startT.AddDate(0, 0, -length)
	prevEnd := startT.AddDate(0, 0, -1)
	return prevStart.Format("2006-01-02"), prevEnd.Format("2006-01-02"), nil
}

func (s *MetricsService) windowMetric(metric, start, end string) (float64, error) {
	rows, err := s.filtered(start, end)
	if err != nil {
		return 0, err
	}

	switch metric {
	case ComparisonRevenue:
		var total float64
		for _, r := range rows {
			total += r.Price
		}
		return total, nil
	case ComparisonOrders:
		return float64(distinctOrders(rows)), nil
	case ComparisonAOV:
		totals := groupByOrder(rows)
		if len(totals) == 0 {
			return 0, nil
		}
		var sum float64
		for _, t := range totals {
			sum += t.value
		}
		return sum / float64(len(totals)), nil
	default:
		return 0, fmt.Errorf("unknown comparison metric %q", metric)
	}
}
