package billing

import (
	"time"

	"github.com/labops/labops/internal/domain/orders"
)

// Surface selects the response shape of the billing view.
type Surface string

const (
	SurfaceTable Surface = "table"
	SurfaceCard  Surface = "card"
)

// TableRow is the dense per-order row for tabular clients.
type TableRow struct {
	OrderID       string     `json:"order_id"`
	PatientID     string     `json:"patient_id"`
	PatientName   string     `json:"patient_name"`
	OrderedAt     time.Time  `json:"ordered_at"`
	TestCount     int        `json:"test_count"`
	Total         float64    `json:"total"`
	PaymentStatus string     `json:"payment_status"`
	Method        string     `json:"method,omitempty"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
}

// Card is the summary shape for card-style clients. It carries the test
// names instead of just a count and omits the method and paid-at columns.
type Card struct {
	OrderID       string    `json:"order_id"`
	PatientName   string    `json:"patient_name"`
	OrderedAt     time.Time `json:"ordered_at"`
	TestNames     []string  `json:"test_names"`
	Total         float64   `json:"total"`
	PaymentStatus string    `json:"payment_status"`
	Amount        *float64  `json:"amount,omitempty"`
}

// ProjectTable renders view rows for the table surface. Method and paid-at
// are omitted on unpaid rows rather than sent as zero values.
func ProjectTable(views []*OrderPaymentView) []*TableRow {
	out := make([]*TableRow, 0, len(views))
	for _, v := range views {
		row := &TableRow{
			OrderID:       v.Order.ID.String(),
			PatientID:     v.Order.PatientID,
			PatientName:   v.Order.PatientName,
			OrderedAt:     v.Order.OrderedAt,
			TestCount:     len(orders.ActiveTests(v.Order)),
			Total:         v.Order.TotalPrice,
			PaymentStatus: paymentStatusOf(v),
		}
		if p := v.Settled(); p != nil {
			row.Method = string(p.Method)
			paidAt := p.PaidAt
			row.PaidAt = &paidAt
		}
		out = append(out, row)
	}
	return out
}

// ProjectCards renders view rows for the card surface.
func ProjectCards(views []*OrderPaymentView) []*Card {
	out := make([]*Card, 0, len(views))
	for _, v := range views {
		active := orders.ActiveTests(v.Order)
		names := make([]string, 0, len(active))
		for _, ti := range active {
			names = append(names, ti.Name)
		}
		card := &Card{
			OrderID:       v.Order.ID.String(),
			PatientName:   v.Order.PatientName,
			OrderedAt:     v.Order.OrderedAt,
			TestNames:     names,
			Total:         v.Order.TotalPrice,
			PaymentStatus: paymentStatusOf(v),
		}
		if p := v.Settled(); p != nil {
			amount := p.Amount
			card.Amount = &amount
		}
		out = append(out, card)
	}
	return out
}

// paymentStatusOf derives the displayed status from the order's stored
// payment status. A stale payment attached to an unpaid order must not show
// through; the order column is authoritative for display.
func paymentStatusOf(v *OrderPaymentView) string {
	if v.Order.PaymentStatus == orders.PaymentPaid {
		return "paid"
	}
	return "unpaid"
}
