package models

import (
	"time"

	"github.com/google/uuid"
)

// SalesType is the channel an order was taken through (counter, delivery app...).
// It also keys per-product price overrides.
type SalesType struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
