package billing

import (
	"context"
	"sync"

	"github.com/labops/labops/internal/domain/orders"
)

// OrderSource supplies the order rows feeding the reconciliation view.
type OrderSource interface {
	List(ctx context.Context) ([]*orders.Order, error)
	Invalidate()
}

// PaymentSource supplies the payment rows feeding the reconciliation view.
type PaymentSource interface {
	List(ctx context.Context) ([]*Payment, error)
	Invalidate()
}

// orderCache memoizes the full order list until invalidated. Both caches
// follow the same pattern: hold the result under a mutex, refetch on the
// first List after Invalidate.
type orderCache struct {
	repo orders.Repository

	mu     sync.Mutex
	loaded bool
	data   []*orders.Order
}

func NewOrderCache(repo orders.Repository) OrderSource {
	return &orderCache{repo: repo}
}

func (c *orderCache) List(ctx context.Context) ([]*orders.Order, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return c.data, nil
	}
	data, err := c.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	c.data = data
	c.loaded = true
	return data, nil
}

func (c *orderCache) Invalidate() {
	c.mu.Lock()
	c.loaded = false
	c.data = nil
	c.mu.Unlock()
}

type paymentCache struct {
	repo PaymentRepository

	mu     sync.Mutex
	loaded bool
	data   []*Payment
}

func NewPaymentCache(repo PaymentRepository) PaymentSource {
	return &paymentCache{repo: repo}
}

func (c *paymentCache) List(ctx context.Context) ([]*Payment, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return c.data, nil
	}
	data, err := c.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	c.data = data
	c.loaded = true
	return data, nil
}

func (c *paymentCache) Invalidate() {
	c.mu.Lock()
	c.loaded = false
	c.data = nil
	c.mu.Unlock()
}
