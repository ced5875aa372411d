// internal/dataset/sales.go
package dataset

import (
	"math"
	"time"

	"github.com/storesight/analytics-backend/internal/models"
)

// StatusAll is the sentinel status filter that keeps every row regardless of
// order status.
const StatusAll = "all"

// DefaultStatusFilter is applied when no explicit status filter is given.
const DefaultStatusFilter = string(models.OrderStatusDelivered)

// SalesView is a denormalized sales table plus flags recording which optional
// dimensions its records carry. The flags are what metric code checks before
// grouping; a false flag means the enrichment never ran, not that every value
// is nil.
type SalesView struct {
	Records         []models.SalesRecord `json:"records"`
	HasDeliveryDays bool                 `json:"has_delivery_days"`
	HasCategory     bool                 `json:"has_category"`
	HasGeography    bool                 `json:"has_geography"`
	HasReviews      bool                 `json:"has_reviews"`
}

// Clone copies the view so downstream enrichment and filtering never touch a
// caller's records.
func (v *SalesView) Clone() *SalesView {
	out := *v
	out.Records = make([]models.SalesRecord, len(v.Records))
	copy(out.Records, v.Records)
	return &out
}

// SalesViewOptions configures BuildSalesView. An empty StatusFilter means
// DefaultStatusFilter; StatusAll disables status filtering. Date bounds are
// inclusive YYYY-MM-DD strings applied to the purchase timestamp.
type SalesViewOptions struct {
	StatusFilter string
	StartDate    string
	EndDate      string
}

// BuildSalesView left-joins order items with orders and applies the status
// and date filters. Every surviving item yields exactly one record; items
// whose order is missing keep zero-valued order fields. delivery_days is
// computed only when the filter resolves to "delivered".
func (l *Loader) BuildSalesView(opts SalesViewOptions) (*SalesView, error) {
	orders, err := l.Orders()
	if err != nil {
		return nil, err
	}
	items, err := l.OrderItems()
	if err != nil {
		return nil, err
	}

	status := opts.StatusFilter
	if status == "" {
		status = DefaultStatusFilter
	}

	byID := make(map[string]*models.Order, len(orders))
	for i := range orders {
		byID[orders[i].OrderID] = &orders[i]
	}

	records := make([]models.SalesRecord, 0, len(items))
	for _, item := range items {
		rec := models.SalesRecord{
			OrderID:      item.OrderID,
			OrderItemID:  item.OrderItemID,
			ProductID:    item.ProductID,
			Price:        item.Price,
			FreightValue: item.FreightValue,
		}
		if o := byID[item.OrderID]; o != nil {
			rec.CustomerID = o.CustomerID
			rec.OrderStatus = o.OrderStatus
			rec.PurchaseTimestamp = o.PurchaseTimestamp
			rec.DeliveredDate = o.DeliveredCustomerDate
			rec.EstimatedDelivery = o.EstimatedDeliveryDate
			rec.Year = o.Year
			rec.Month = o.Month
		}
		if status != StatusAll && string(rec.OrderStatus) != status {
			continue
		}
		records = append(records, rec)
	}

	records, err = FilterByDate(records, purchaseTime, opts.StartDate, opts.EndDate)
	if err != nil {
		return nil, err
	}

	view := &SalesView{Records: records}
	if status == string(models.OrderStatusDelivered) {
		for i := range view.Records {
			view.Records[i].DeliveryDays = deliveryDays(&view.Records[i])
		}
		view.HasDeliveryDays = true
	}

	return view, nil
}

func purchaseTime(r models.SalesRecord) *time.Time {
	return r.PurchaseTimestamp
}

// deliveryDays is the whole-day difference between delivery and purchase,
// nil when either timestamp is missing.
func deliveryDays(r *models.SalesRecord) *int {
	if r.DeliveredDate == nil || r.PurchaseTimestamp == nil {
		return nil
	}
	days := int(math.Floor(r.DeliveredDate.Sub(*r.PurchaseTimestamp).Hours() / 24))
	return &days
}

// EnrichWithProducts left-joins product category onto a copy of the view.
// Records without a matching product keep a nil category.
func (l *Loader) EnrichWithProducts(view *SalesView) (*SalesView, error) {
	products, err := l.Products()
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*string, len(products))
	for i := range products {
		byID[products[i].ProductID] = products[i].CategoryName
	}

	out := view.Clone()
	for i := range out.Records {
		out.Records[i].ProductCategory = byID[out.Records[i].ProductID]
	}
	out.HasCategory = true
	return out, nil
}

// EnrichWithGeography left-joins customer state and city onto a copy of the
// view. Records without a matching customer keep nil geography.
func (l *Loader) EnrichWithGeography(view *SalesView) (*SalesView, error) {
	customers, err := l.Customers()
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*models.Customer, len(customers))
	for i := range customers {
		byID[customers[i].CustomerID] = &customers[i]
	}

	out := view.Clone()
	for i := range out.Records {
		if c := byID[out.Records[i].CustomerID]; c != nil {
			state, city := c.State, c.City
			out.Records[i].CustomerState = &state
			out.Records[i].CustomerCity = &city
		}
	}
	out.HasGeography = true
	return out, nil
}

// EnrichWithReviews left-joins review scores onto a copy of the view after
// de-duplicating reviews to one per order, keeping the first occurrence.
func (l *Loader) EnrichWithReviews(view *SalesView) (*SalesView, error) {
	reviews, err := l.Reviews()
	if err != nil {
		return nil, err
	}

	scores := make(map[string]int, len(reviews))
	for _, rv := range reviews {
		if _, seen := scores[rv.OrderID]; !seen {
			scores[rv.OrderID] = rv.ReviewScore
		}
	}

	out := view.Clone()
	for i := range out.Records {
		if score, ok := scores[out.Records[i].OrderID]; ok {
			s := score
			out.Records[i].ReviewScore = &s
		}
	}
	out.HasReviews = true
	return out, nil
}
