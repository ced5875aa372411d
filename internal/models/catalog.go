// internal/models/catalog.go
package models

type Product struct {
	ProductID    string  `json:"product_id"`
	CategoryName *string `json:"product_category_name"`
}

type Customer struct {
	CustomerID string `json:"customer_id"`
	State      string `json:"customer_state"`
	City       string `json:"customer_city"`
}
