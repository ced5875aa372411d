// internal/models/sales.go
package models

import "time"

// SalesRecord is one denormalized row of a sales view: an order item
// left-joined with its order and, after enrichment, with product category,
// customer geography and review score. Order-side fields stay at their zero
// values when the item's order is missing from the orders dataset.
type SalesRecord struct {
	OrderID           string      `json:"order_id"`
	OrderItemID       int         `json:"order_item_id"`
	ProductID         string      `json:"product_id"`
	Price             float64     `json:"price"`
	FreightValue      float64     `json:"freight_value"`
	CustomerID        string      `json:"customer_id"`
	OrderStatus       OrderStatus `json:"order_status"`
	PurchaseTimestamp *time.Time  `json:"order_purchase_timestamp"`
	DeliveredDate     *time.Time  `json:"order_delivered_customer_date"`
	EstimatedDelivery *time.Time  `json:"order_estimated_delivery_date"`
	Year              int         `json:"year"`
	Month             int         `json:"month"`

	// DeliveryDays is the whole-day gap between purchase and delivery,
	// populated only for views built with the delivered status filter.
	DeliveryDays *int `json:"delivery_days,omitempty"`

	// Enrichment fields, nil until the matching enrichment ran or when the
	// joined row had no match.
	ProductCategory *string `json:"product_category_name,omitempty"`
	CustomerState   *string `json:"customer_state,omitempty"`
	CustomerCity    *string `json:"customer_city,omitempty"`
	ReviewScore     *int    `json:"review_score,omitempty"`
}
