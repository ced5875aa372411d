// internal/services/metrics_breakdown.go
package services

import (
	"sort"
)

type CategoryPerformance struct {
	Category         string  `json:"product_category_name"`
	Revenue          float64 `json:"revenue"`
	AvgPrice         float64 `json:"avg_price"`
	ItemsSold        int     `json:"items_sold"`
	OrderCount       int     `json:"order_count"`
	UniqueProducts   int     `json:"unique_products"`
	RevenueShare     float64 `json:"revenue_share"`
	AvgItemsPerOrder float64 `json:"avg_items_per_order"`
}

// ProductPerformance aggregates the filtered rows per product category,
// sorted by revenue descending and truncated to topN (no truncation when
// topN <= 0). Rows without a category are excluded from the grouping.
// Revenue shares are computed over the full category set before truncation,
// so the shares of all categories sum to 100.
func (s *MetricsService) ProductPerformance(topN int, start, end string) ([]CategoryPerformance, error) {
	if !s.view.HasCategory {
		return nil, &MissingDimensionError{Dimension: "product_category_name"}
	}

	rows, err := s.filtered(start, end)
	if err != nil {
		return nil, err
	}

	type catAgg struct {
		revenue  float64
		items    int
		orders   map[string]bool
		products map[string]bool
	}
	byCat := make(map[string]*catAgg)
	for _, r := range rows {
		if r.ProductCategory == nil {
			continue
		}
		c := byCat[*r.ProductCategory]
		if c == nil {
			c = &catAgg{orders: make(map[string]bool), products: make(map[string]bool)}
			byCat[*r.ProductCategory] = c
		}
		c.revenue += r.Price
		c.items++
		c.orders[r.OrderID] = true
		c.products[r.ProductID] = true
	}

	var totalRevenue float64
	for _, c := range byCat {
		totalRevenue += c.revenue
	}

	out := make([]CategoryPerformance, 0, len(byCat))
	for name, c := range byCat {
		row := CategoryPerformance{
			Category:       name,
			Revenue:        c.revenue,
			AvgPrice:       c.revenue / float64(c.items),
			ItemsSold:      c.items,
			OrderCount:     len(c.orders),
			UniqueProducts: len(c.products),
		}
		if totalRevenue > 0 {
			row.RevenueShare = c.revenue / totalRevenue * 100
		}
		if row.OrderCount > 0 {
			row.AvgItemsPerOrder = float64(c.items) / float64(row.OrderCount)
		}
		out = append(out, row)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Revenue != out[j].Revenue {
			return out[i].Revenue > out[j].Revenue
		}
		return out[i].Category < out[j].Category
	})
	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}

	return out, nil
}

type StatePerformance struct {
	State              string  `json:"customer_state"`
	Revenue            float64 `json:"revenue"`
	OrderCount         int     `json:"order_count"`
	UniqueCustomers    int     `json:"unique_customers"`
	AvgOrderValue      float64 `json:"avg_order_value"`
	RevenuePerCustomer float64 `json:"revenue_per_customer"`
	RevenueShare       float64 `json:"revenue_share"`
}

// GeographicPerformance aggregates the filtered rows per customer state,
// sorted by revenue descending. Rows without geography are excluded.
func (s *MetricsService) GeographicPerformance(start, end string) ([]StatePerformance, error) {
	if !s.view.HasGeography {
		return nil, &MissingDimensionError{Dimension: "customer_state"}
	}

	rows, err := s.filtered(start, end)
	if err != nil {
		return nil, err
	}

	type stateAgg struct {
		revenue   float64
		orders    map[string]bool
		customers map[string]bool
	}
	byState := make(map[string]*stateAgg)
	for _, r := range rows {
		if r.CustomerState == nil {
			continue
		}
		a := byState[*r.CustomerState]
		if a == nil {
			a = &stateAgg{orders: make(map[string]bool), customers: make(map[string]bool)}
			byState[*r.CustomerState] = a
		}
		a.revenue += r.Price
		a.orders[r.OrderID] = true
		a.customers[r.CustomerID] = true
	}

	var totalRevenue float64
	for _, a := range byState {
		totalRevenue += a.revenue
	}

	out := make([]StatePerformance, 0, len(byState))
	for name, a := range byState {
		row := StatePerformance{
			State:           name,
			Revenue:         a.revenue,
			OrderCount:      len(a.orders),
			UniqueCustomers: len(a.customers),
		}
		if row.OrderCount > 0 {
			row.AvgOrderValue = a.revenue / float64(row.OrderCount)
		}
		if row.UniqueCustomers > 0 {
			row.RevenuePerCustomer = a.revenue / float64(row.UniqueCustomers)
		}
		if totalRevenue > 0 {
			row.RevenueShare = a.revenue / totalRevenue * 100
		}
		out = append(out, row)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Revenue != out[j].Revenue {
			return out[i].Revenue > out[j].Revenue
		}
		return out[i].State < out[j].State
	})

	return out, nil
}
