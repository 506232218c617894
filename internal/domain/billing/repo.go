package billing

import (
	"context"

	"github.com/google/uuid"
)

// PaymentRepository persists payments. Payments are append-only; there is
// no update or delete.
type PaymentRepository interface {
	Create(ctx context.Context, p *Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	List(ctx context.Context, limit, offset int) ([]*Payment, int, error)
	ListAll(ctx context.Context) ([]*Payment, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*Payment, error)
}
