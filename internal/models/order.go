// internal/models/order.go
package models

import "time"

type OrderStatus string

const (
	OrderStatusCreated     OrderStatus = "created"
	OrderStatusApproved    OrderStatus = "approved"
	OrderStatusInvoiced    OrderStatus = "invoiced"
	OrderStatusProcessing  OrderStatus = "processing"
	OrderStatusShipped     OrderStatus = "shipped"
	OrderStatusDelivered   OrderStatus = "delivered"
	OrderStatusCanceled    OrderStatus = "canceled"
	OrderStatusUnavailable OrderStatus = "unavailable"
)

// Order is one row of the orders dataset. Timestamp fields are nil when the
// source cell was empty or unparseable. Year and Month are derived from the
// purchase timestamp at load time (0 when the timestamp is nil).
type Order struct {
	OrderID               string      `json:"order_id"`
	CustomerID            string      `json:"customer_id"`
	OrderStatus           OrderStatus `json:"order_status"`
	PurchaseTimestamp     *time.Time  `json:"order_purchase_timestamp"`
	ApprovedAt            *time.Time  `json:"order_approved_at"`
	DeliveredCarrierDate  *time.Time  `json:"order_delivered_carrier_date"`
	DeliveredCustomerDate *time.Time  `json:"order_delivered_customer_date"`
	EstimatedDeliveryDate *time.Time  `json:"order_estimated_delivery_date"`
	Year                  int         `json:"year"`
	Month                 int         `json:"month"`
}

// OrderItem is one row of the order items dataset, identified by the
// composite (order_id, order_item_id).
type OrderItem struct {
	OrderID           string     `json:"order_id"`
	OrderItemID       int        `json:"order_item_id"`
	ProductID         string     `json:"product_id"`
	Price             float64    `json:"price"`
	FreightValue      float64    `json:"freight_value"`
	ShippingLimitDate *time.Time `json:"shipping_limit_date"`
}

type Review struct {
	OrderID         string     `json:"order_id"`
	ReviewScore     int        `json:"review_score"`
	CreationDate    *time.Time `json:"review_creation_date"`
	AnswerTimestamp *time.Time `json:"review_answer_timestamp"`
}

type Payment struct {
	OrderID      string  `json:"order_id"`
	Sequential   int     `json:"payment_sequential"`
	Type         string  `json:"payment_type"`
	Installments int     `json:"payment_installments"`
	Value        float64 `json:"payment_value"`
}
