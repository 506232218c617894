package billing

import (
	"time"

	"github.com/google/uuid"

	"github.com/labops/labops/internal/domain/orders"
)

// PaymentMethod is how a payment was settled.
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "cash"
	MethodCreditCard   PaymentMethod = "credit-card"
	MethodDebitCard    PaymentMethod = "debit-card"
	MethodInsurance    PaymentMethod = "insurance"
	MethodBankTransfer PaymentMethod = "bank-transfer"
	MethodMobileMoney  PaymentMethod = "mobile-money"
)

// AllMethods lists every method the system knows about, in display order.
var AllMethods = []PaymentMethod{
	MethodCash,
	MethodCreditCard,
	MethodDebitCard,
	MethodInsurance,
	MethodBankTransfer,
	MethodMobileMoney,
}

// Methods is the deployment-enabled subset of payment methods. The first
// entry is the default offered on new payments.
type Methods struct {
	enabled []PaymentMethod
}

// NewMethods builds the enabled method set from config strings. Unknown
// names are rejected so a typo in config fails at startup, not at payment
// time.
func NewMethods(names []string) (*Methods, error) {
	known := make(map[PaymentMethod]bool, len(AllMethods))
	for _, m := range AllMethods {
		known[m] = true
	}
	var enabled []PaymentMethod
	seen := make(map[PaymentMethod]bool)
	for _, name := range names {
		m := PaymentMethod(name)
		if !known[m] {
			return nil, &ValidationError{Field: "payment_methods", Reason: "unknown payment method " + name}
		}
		if seen[m] {
			continue
		}
		seen[m] = true
		enabled = append(enabled, m)
	}
	if len(enabled) == 0 {
		return nil, &ValidationError{Field: "payment_methods", Reason: "at least one payment method must be enabled"}
	}
	return &Methods{enabled: enabled}, nil
}

// Enabled returns the enabled methods in configured order.
func (m *Methods) Enabled() []PaymentMethod {
	out := make([]PaymentMethod, len(m.enabled))
	copy(out, m.enabled)
	return out
}

// Default is the method preselected for a new payment.
func (m *Methods) Default() PaymentMethod { return m.enabled[0] }

// Contains reports whether the method is enabled for this deployment.
func (m *Methods) Contains(pm PaymentMethod) bool {
	for _, e := range m.enabled {
		if e == pm {
			return true
		}
	}
	return false
}

// Payment records a settled payment against an order. Amount is always the
// order's billable total at payment time.
type Payment struct {
	ID        uuid.UUID     `db:"id" json:"id"`
	OrderID   uuid.UUID     `db:"order_id" json:"order_id"`
	Amount    float64       `db:"amount" json:"amount"`
	Currency  string        `db:"currency" json:"currency"`
	Method    PaymentMethod `db:"method" json:"method"`
	PaidAt    time.Time     `db:"paid_at" json:"paid_at"`
	Notes     *string       `db:"notes" json:"notes,omitempty"`
	CreatedBy string        `db:"created_by" json:"created_by"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
}

// OrderPaymentView is one row of the reconciled billing view: an order
// joined with its effective payment, if any. Payment is nil for unpaid
// orders.
type OrderPaymentView struct {
	Order   *orders.Order `json:"order"`
	Payment *Payment      `json:"payment,omitempty"`
}

// Paid reports whether this row has an effective payment attached.
func (v *OrderPaymentView) Paid() bool { return v.Payment != nil }

// Settled returns the payment to surface for this row. The order's stored
// payment status is authoritative: a payment attached to an order still
// marked unpaid (the caches refetch independently, and marking the order
// paid can lag payment creation) is treated as not yet settled and is
// never exposed.
func (v *OrderPaymentView) Settled() *Payment {
	if v.Order.PaymentStatus != orders.PaymentPaid {
		return nil
	}
	return v.Payment
}
