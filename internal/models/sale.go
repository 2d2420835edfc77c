package models

import (
	"time"

	"github.com/google/uuid"
)

// Sale is the immutable financial record created when an order is paid.
// OrderID is a historical reference only; the order may later be deleted.
type Sale struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	OrderID       uuid.UUID     `json:"order_id" db:"order_id"`
	TableID       int           `json:"table_id" db:"table_id"`
	Items         []*SaleItem   `json:"items"`
	TotalAmount   float64       `json:"total_amount" db:"total_amount"`
	PaymentMethod PaymentMethod `json:"payment_method" db:"payment_method"`
	Timestamp     time.Time     `json:"timestamp" db:"timestamp"`
}

// SaleItem is a by-value snapshot of an order line at close time. It carries
// its own copy of the product name and price so catalog or order mutations
// after the sale never alter it.
type SaleItem struct {
	ID            uuid.UUID `json:"id" db:"id"`
	SaleID        uuid.UUID `json:"sale_id" db:"sale_id"`
	ProductID     uuid.UUID `json:"product_id" db:"product_id"`
	ProductName   string    `json:"product_name" db:"product_name"`
	PriceAtSale   float64   `json:"price_at_sale" db:"price_at_sale"`
	Quantity      int       `json:"quantity" db:"quantity"`
	SendToKitchen bool      `json:"send_to_kitchen" db:"send_to_kitchen"`
}
