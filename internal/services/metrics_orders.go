// internal/services/metrics_orders.go
package services

type OrderMetrics struct {
	TotalOrders               int                `json:"total_orders"`
	TotalRevenue              float64            `json:"total_revenue"`
	AvgOrderValue             float64            `json:"avg_order_value"`
	MedianOrderValue          float64            `json:"median_order_value"`
	OrderValueStd             float64            `json:"order_value_std"`
	MinOrderValue             float64            `json:"min_order_value"`
	MaxOrderValue             float64            `json:"max_order_value"`
	AvgItemsPerOrder          float64            `json:"avg_items_per_order"`
	AvgUniqueProductsPerOrder float64            `json:"avg_unique_products_per_order"`
	StatusDistribution        map[string]int     `json:"order_status_distribution,omitempty"`
	StatusPercentages         map[string]float64 `json:"order_status_percentages,omitempty"`
}

// OrderMetrics aggregates the filtered rows to one entry per order (summed
// price, item count, distinct products) and reports distribution statistics
// over those order values plus a status breakdown over distinct orders.
func (s *MetricsService) OrderMetrics(start, end string) (*OrderMetrics, error) {
	rows, err := s.filtered(start, end)
	if err != nil {
		return nil, err
	}

	totals := groupByOrder(rows)
	out := &OrderMetrics{TotalOrders: len(totals)}
	if len(totals) == 0 {
		return out, nil
	}

	values := make([]float64, len(totals))
	var items, products int
	statusCounts := make(map[string]int)
	for i, t := range totals {
		values[i] = t.value
		out.TotalRevenue += t.value
		items += t.items
		products += t.uniqueProducts
		if t.status != "" {
			statusCounts[string(t.status)]++
		}
	}

	lo, hi := minMax(values)
	out.AvgOrderValue = mean(values)
	out.MedianOrderValue = median(values)
	out.OrderValueStd = stdDev(values)
	out.MinOrderValue = lo
	out.MaxOrderValue = hi
	out.AvgItemsPerOrder = float64(items) / float64(len(totals))
	out.AvgUniqueProductsPerOrder = float64(products) / float64(len(totals))

	if len(statusCounts) > 0 {
		out.StatusDistribution = statusCounts
		out.StatusPercentages = make(map[string]float64, len(statusCounts))
		var counted int
		for _, n := range statusCounts {
			counted += n
		}
		for status, n := range statusCounts {
			out.StatusPercentages[status] = float64(n) / float64(counted) * 100
		}
	}

	return out, nil
}
