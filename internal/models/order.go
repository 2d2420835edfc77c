package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the lifecycle state of an order. PAID and CANCELED are
// terminal; an order is never reopened.
type OrderStatus string

const (
	OrderStatusOpen     OrderStatus = "OPEN"
	OrderStatusPaid     OrderStatus = "PAID"
	OrderStatusCanceled OrderStatus = "CANCELED"
)

// PaymentMethod is how a closed order was settled.
type PaymentMethod string

const (
	PaymentMethodCash       PaymentMethod = "CASH"
	PaymentMethodCreditCard PaymentMethod = "CREDIT_CARD"
	PaymentMethodDebitCard  PaymentMethod = "DEBIT_CARD"
	PaymentMethodPix        PaymentMethod = "PIX"
)

// Order is an in-progress or finalized tab for one table. TotalAmount is
// derived from the items and recomputed on every item mutation, never taken
// as input. EndTime and PaymentMethod are set only when the order reaches a
// terminal status (PaymentMethod only for PAID).
type Order struct {
	ID            uuid.UUID      `json:"id" db:"id"`
	TableID       int            `json:"table_id" db:"table_id"`
	Items         []*OrderItem   `json:"items"`
	TotalAmount   float64        `json:"total_amount" db:"total_amount"`
	Status        OrderStatus    `json:"status" db:"status"`
	StartTime     time.Time      `json:"start_time" db:"start_time"`
	EndTime       *time.Time     `json:"end_time" db:"end_time"`
	PaymentMethod *PaymentMethod `json:"payment_method" db:"payment_method"`
}

// ItemForProduct returns the order item referencing the given product, or nil.
func (o *Order) ItemForProduct(productID uuid.UUID) *OrderItem {
	for _, item := range o.Items {
		if item.ProductID == productID {
			return item
		}
	}
	return nil
}

// RecalculateTotal recomputes TotalAmount from the current items.
func (o *Order) RecalculateTotal() {
	total := 0.0
	for _, item := range o.Items {
		total += item.PriceAtOrder * float64(item.Quantity)
	}
	o.TotalAmount = total
}
