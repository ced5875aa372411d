// internal/dataset/loader.go
package dataset

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/storesight/analytics-backend/internal/models"
)

// Dataset file names are a public contract shared with the extraction
// tooling; they never change independently of it.
const (
	ordersFile    = "orders_dataset.csv"
	itemsFile     = "order_items_dataset.csv"
	productsFile  = "products_dataset.csv"
	customersFile = "customers_dataset.csv"
	reviewsFile   = "order_reviews_dataset.csv"
	paymentsFile  = "order_payments_dataset.csv"
)

// Loader reads the raw CSV extracts and caches each parsed dataset on first
// access. The cache is never invalidated; callers that need fresh data build
// a new Loader. Loaded slices are treated as immutable snapshots.
type Loader struct {
	source Source
	loaded map[string]bool

	orders    []models.Order
	items     []models.OrderItem
	products  []models.Product
	customers []models.Customer
	reviews   []models.Review
	payments  []models.Payment
}

func NewLoader(source Source) *Loader {
	return &Loader{
		source: source,
		loaded: make(map[string]bool),
	}
}

func (l *Loader) readDataset(file string, required []string) ([]row, error) {
	f, err := l.source.Open(file)
	if err != nil {
		return nil, &DataUnavailableError{Dataset: file, Err: err}
	}
	defer f.Close()

	rows, err := readRows(f, file, required)
	if err != nil {
		return nil, &DataUnavailableError{Dataset: file, Err: err}
	}

	logrus.WithFields(logrus.Fields{
		"dataset": file,
		"rows":    len(rows),
	}).Debug("Dataset loaded")

	return rows, nil
}

// Orders loads the orders dataset, coercing malformed timestamps to nil and
// deriving year/month from the purchase timestamp.
func (l *Loader) Orders() ([]models.Order, error) {
	if l.loaded[ordersFile] {
		return l.orders, nil
	}

	rows, err := l.readDataset(ordersFile, []string{"order_id"})
	if err != nil {
		return nil, err
	}

	orders := make([]models.Order, 0, len(rows))
	for _, r := range rows {
		o := models.Order{
			OrderID:               r.get("order_id"),
			CustomerID:            r.get("customer_id"),
			OrderStatus:           models.OrderStatus(r.get("order_status")),
			PurchaseTimestamp:     parseTimestamp(r.get("order_purchase_timestamp")),
			ApprovedAt:            parseTimestamp(r.get("order_approved_at")),
			DeliveredCarrierDate:  parseTimestamp(r.get("order_delivered_carrier_date")),
			DeliveredCustomerDate: parseTimestamp(r.get("order_delivered_customer_date")),
			EstimatedDeliveryDate: parseTimestamp(r.get("order_estimated_delivery_date")),
		}
		if o.PurchaseTimestamp != nil {
			o.Year = o.PurchaseTimestamp.Year()
			o.Month = int(o.PurchaseTimestamp.Month())
		}
		orders = append(orders, o)
	}

	l.orders = orders
	l.loaded[ordersFile] = true
	return l.orders, nil
}

func (l *Loader) OrderItems() ([]models.OrderItem, error) {
	if l.loaded[itemsFile] {
		return l.items, nil
	}

	rows, err := l.readDataset(itemsFile, []string{"order_id", "order_item_id"})
	if err != nil {
		return nil, err
	}

	items := make([]models.OrderItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, models.OrderItem{
			OrderID:           r.get("order_id"),
			OrderItemID:       parseInt(r.get("order_item_id")),
			ProductID:         r.get("product_id"),
			Price:             parseFloat(r.get("price")),
			FreightValue:      parseFloat(r.get("freight_value")),
			ShippingLimitDate: parseTimestamp(r.get("shipping_limit_date")),
		})
	}

	l.items = items
	l.loaded[itemsFile] = true
	return l.items, nil
}

func (l *Loader) Products() ([]models.Product, error) {
	if l.loaded[productsFile] {
		return l.products, nil
	}

	rows, err := l.readDataset(productsFile, []string{"product_id"})
	if err != nil {
		return nil, err
	}

	products := make([]models.Product, 0, len(rows))
	for _, r := range rows {
		p := models.Product{ProductID: r.get("product_id")}
		if name := r.get("product_category_name"); name != "" {
			p.CategoryName = &name
		}
		products = append(products, p)
	}

	l.products = products
	l.loaded[productsFile] = true
	return l.products, nil
}

func (l *Loader) Customers() ([]models.Customer, error) {
	if l.loaded[customersFile] {
		return l.customers, nil
	}

	rows, err := l.readDataset(customersFile, []string{"customer_id"})
	if err != nil {
		return nil, err
	}

	customers := make([]models.Customer, 0, len(rows))
	for _, r := range rows {
		customers = append(customers, models.Customer{
			CustomerID: r.get("customer_id"),
			State:      r.get("customer_state"),
			City:       r.get("customer_city"),
		})
	}

	l.customers = customers
	l.loaded[customersFile] = true
	return l.customers, nil
}

func (l *Loader) Reviews() ([]models.Review, error) {
	if l.loaded[reviewsFile] {
		return l.reviews, nil
	}

	rows, err := l.readDataset(reviewsFile, []string{"order_id", "review_score"})
	if err != nil {
		return nil, err
	}

	reviews := make([]models.Review, 0, len(rows))
	for _, r := range rows {
		reviews = append(reviews, models.Review{
			OrderID:         r.get("order_id"),
			ReviewScore:     parseInt(r.get("review_score")),
			CreationDate:    parseTimestamp(r.get("review_creation_date")),
			AnswerTimestamp: parseTimestamp(r.get("review_answer_timestamp")),
		})
	}

	l.reviews = reviews
	l.loaded[reviewsFile] = true
	return l.reviews, nil
}

func (l *Loader) Payments() ([]models.Payment, error) {
	if l.loaded[paymentsFile] {
		return l.payments, nil
	}

	rows, err := l.readDataset(paymentsFile, []string{"order_id"})
	if err != nil {
		return nil, err
	}

	payments := make([]models.Payment, 0, len(rows))
	for _, r := range rows {
		payments = append(payments, models.Payment{
			OrderID:      r.get("order_id"),
			Sequential:   parseInt(r.get("payment_sequential")),
			Type:         r.get("payment_type"),
			Installments: parseInt(r.get("payment_installments")),
			Value:        parseFloat(r.get("payment_value")),
		})
	}

	l.payments = payments
	l.loaded[paymentsFile] = true
	return l.payments, nil
}

// LoadAll eagerly loads every dataset, failing on the first unavailable one.
func (l *Loader) LoadAll() error {
	steps := []func() error{
		func() error { _, err := l.Orders(); return err },
		func() error { _, err := l.OrderItems(); return err },
		func() error { _, err := l.Products(); return err },
		func() error { _, err := l.Customers(); return err },
		func() error { _, err := l.Reviews(); return err },
		func() error { _, err := l.Payments(); return err },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return fmt.Errorf("failed to load datasets: %w", err)
		}
	}
	return nil
}
