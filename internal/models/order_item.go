package models

import "github.com/google/uuid"

// OrderItem is one product line inside an order. PriceAtOrder and
// SendToKitchen are copied from the product when the line is first added, so
// later catalog changes do not affect existing lines.
type OrderItem struct {
	ID            uuid.UUID `json:"id" db:"id"`
	OrderID       uuid.UUID `json:"order_id" db:"order_id"`
	ProductID     uuid.UUID `json:"product_id" db:"product_id"`
	Quantity      int       `json:"quantity" db:"quantity"`
	PriceAtOrder  float64   `json:"price_at_order" db:"price_at_order"`
	SendToKitchen bool      `json:"send_to_kitchen" db:"send_to_kitchen"`
}
