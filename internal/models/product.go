package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog entry. SendToKitchen marks items the kitchen must
// prepare (as opposed to bar-only drinks).
type Product struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	CategoryID    uuid.UUID `json:"category_id" db:"category_id"`
	Price         float64   `json:"price" db:"price"`
	SendToKitchen bool      `json:"send_to_kitchen" db:"send_to_kitchen"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}
