package billing

import (
	"github.com/google/uuid"

	"github.com/labops/labops/internal/domain/orders"
)

// Reconcile joins orders with their effective payment. Every order yields
// exactly one view row, in the same position as the input; orders without a
// payment get a nil Payment. When multiple payments exist for one order the
// newest by paid_at wins, with the greater ID breaking exact ties, so the
// result is deterministic regardless of payment input order.
func Reconcile(orderList []*orders.Order, payments []*Payment) []*OrderPaymentView {
	effective := make(map[uuid.UUID]*Payment, len(payments))
	for _, p := range payments {
		if p == nil {
			continue
		}
		cur, ok := effective[p.OrderID]
		if !ok || newerPayment(p, cur) {
			effective[p.OrderID] = p
		}
	}

	views := make([]*OrderPaymentView, 0, len(orderList))
	for _, o := range orderList {
		if o == nil {
			continue
		}
		views = append(views, &OrderPaymentView{
			Order:   o,
			Payment: effective[o.ID],
		})
	}
	return views
}

func newerPayment(a, b *Payment) bool {
	if !a.PaidAt.Equal(b.PaidAt) {
		return a.PaidAt.After(b.PaidAt)
	}
	return a.ID.String() > b.ID.String()
}
