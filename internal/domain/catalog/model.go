package catalog

import (
	"time"

	"github.com/google/uuid"
)

// TestDefinition maps to the test_definition table. It is the orderable lab
// test catalog entry; the price here is the current list price, snapshotted
// onto an order line item at order time.
type TestDefinition struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Code      string    `db:"code" json:"code"`
	Name      string    `db:"name" json:"name"`
	Price     float64   `db:"price" json:"price"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
