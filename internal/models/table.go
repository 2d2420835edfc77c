package models

import (
	"time"

	"github.com/google/uuid"
)

// TableStatus is the occupancy state of a restaurant table.
type TableStatus string

const (
	TableStatusFree     TableStatus = "FREE"
	TableStatusOccupied TableStatus = "OCCUPIED"
	TableStatusAlert    TableStatus = "ALERT"
)

// Table is a physical service location. A table owns at most one open order
// at a time; ActiveOrderID and OccupiedSince are set iff the table is not FREE.
type Table struct {
	ID            int         `json:"id" db:"id"`
	Status        TableStatus `json:"status" db:"status"`
	ActiveOrderID *uuid.UUID  `json:"active_order_id" db:"active_order_id"`
	OccupiedSince *time.Time  `json:"occupied_since" db:"occupied_since"`
}
