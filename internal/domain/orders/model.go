package orders

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus tracks the overall workflow state of a lab order.
type OrderStatus string

const (
	OrderRegistered OrderStatus = "registered"
	OrderInProgress OrderStatus = "in-progress"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
)

// PaymentStatus is the billing state of an order. It flips to paid exactly
// once, when a payment is recorded against the order.
type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

// TestStatus is the lifecycle state of a single ordered test.
type TestStatus string

const (
	TestOrdered    TestStatus = "ordered"
	TestCollected  TestStatus = "collected"
	TestValidated  TestStatus = "validated"
	TestSuperseded TestStatus = "superseded"
	TestRemoved    TestStatus = "removed"
)

// validTransitions defines the allowed test status transitions. Superseded
// and removed are terminal.
var validTransitions = map[TestStatus][]TestStatus{
	TestOrdered:   {TestCollected, TestSuperseded, TestRemoved},
	TestCollected: {TestValidated, TestSuperseded, TestRemoved},
	TestValidated: {TestSuperseded, TestRemoved},
}

// CanTransition reports whether a test may move from one status to another.
func CanTransition(from, to TestStatus) bool {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// TestItem is a test on an order. Price is snapshotted from the catalog at
// order time so later catalog price changes do not affect existing orders.
type TestItem struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	OrderID      uuid.UUID  `db:"order_id" json:"order_id"`
	TestID       uuid.UUID  `db:"test_id" json:"test_id"`
	Code         string     `db:"code" json:"code"`
	Name         string     `db:"name" json:"name"`
	PriceAtOrder float64    `db:"price_at_order" json:"price_at_order"`
	Status       TestStatus `db:"status" json:"status"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// Order is a lab order for a patient. TotalPrice is the stored billable
// total; it is recomputed from active test items whenever an item's
// lifecycle state changes.
type Order struct {
	ID            uuid.UUID     `db:"id" json:"id"`
	PatientID     string        `db:"patient_id" json:"patient_id"`
	PatientName   string        `db:"patient_name" json:"patient_name"`
	OrderedAt     time.Time     `db:"ordered_at" json:"ordered_at"`
	Status        OrderStatus   `db:"status" json:"status"`
	PaymentStatus PaymentStatus `db:"payment_status" json:"payment_status"`
	TotalPrice    float64       `db:"total_price" json:"total_price"`
	Tests         []*TestItem   `db:"-" json:"tests,omitempty"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at"`
}

// StatusChange records one test item status transition on an order.
type StatusChange struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	OrderID    uuid.UUID  `db:"order_id" json:"order_id"`
	TestItemID uuid.UUID  `db:"test_item_id" json:"test_item_id"`
	FromStatus TestStatus `db:"from_status" json:"from_status"`
	ToStatus   TestStatus `db:"to_status" json:"to_status"`
	ChangedBy  string     `db:"changed_by" json:"changed_by"`
	ChangedAt  time.Time  `db:"changed_at" json:"changed_at"`
}
