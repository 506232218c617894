package orders

import (
	"context"

	"github.com/google/uuid"
)

// ListFilter narrows the order listing.
type ListFilter struct {
	Status        OrderStatus
	PaymentStatus PaymentStatus
	PatientID     string
}

type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	List(ctx context.Context, f ListFilter, limit, offset int) ([]*Order, int, error)
	ListAll(ctx context.Context) ([]*Order, error)
	UpdateTestStatus(ctx context.Context, o *Order, item *TestItem, change *StatusChange) error
	MarkPaid(ctx context.Context, id uuid.UUID) error
	History(ctx context.Context, orderID uuid.UUID) ([]*StatusChange, error)
}
