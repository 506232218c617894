package billing

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/labops/labops/internal/domain/orders"
	"github.com/labops/labops/internal/platform/metrics"
)

// Processor handles payment submission. It guarantees at most one payment
// attempt in flight per order, so a double click or a retried request
// cannot produce two payments for the same order.
type Processor struct {
	payments PaymentRepository
	orders   orders.Repository
	methods  *Methods
	currency string

	orderCache   OrderSource
	paymentCache PaymentSource

	mu       sync.Mutex
	inFlight map[uuid.UUID]bool

	logger zerolog.Logger
}

func NewProcessor(
	payments PaymentRepository,
	orderRepo orders.Repository,
	methods *Methods,
	currency string,
	orderCache OrderSource,
	paymentCache PaymentSource,
	logger zerolog.Logger,
) *Processor {
	return &Processor{
		payments:     payments,
		orders:       orderRepo,
		methods:      methods,
		currency:     currency,
		orderCache:   orderCache,
		paymentCache: paymentCache,
		inFlight:     make(map[uuid.UUID]bool),
		logger:       logger.With().Str("component", "billing.processor").Logger(),
	}
}

// SubmitInput carries a payment submission. The amount is not part of the
// input: it is always the order's current billable total.
type SubmitInput struct {
	OrderID   uuid.UUID
	Method    PaymentMethod
	Notes     string
	CreatedBy string
}

// Submit validates and records a payment for an order.
//
// Validation failures return *ValidationError and touch nothing. An order
// that is already paid, or that has another submission in flight, returns
// *ConflictError. Storage failures return *TransportError; the in-flight
// reservation is released so the caller may retry.
func (p *Processor) Submit(ctx context.Context, in SubmitInput) (*Payment, error) {
	if in.OrderID == uuid.Nil {
		metrics.RecordPaymentSubmitted(string(in.Method), "validation_error")
		return nil, &ValidationError{Field: "order_id", Reason: "order id is required"}
	}
	if in.Method == "" {
		in.Method = p.methods.Default()
	}
	if !p.methods.Contains(in.Method) {
		metrics.RecordPaymentSubmitted(string(in.Method), "validation_error")
		return nil, &ValidationError{Field: "method", Reason: "payment method not enabled"}
	}

	o, err := p.orders.GetByID(ctx, in.OrderID)
	if err != nil {
		metrics.RecordPaymentSubmitted(string(in.Method), "validation_error")
		return nil, &ValidationError{Field: "order_id", Reason: "order not found"}
	}
	amount := orders.ActiveTotal(o)
	if amount <= 0 {
		metrics.RecordPaymentSubmitted(string(in.Method), "validation_error")
		return nil, &ValidationError{Field: "order_id", Reason: "order has no billable amount"}
	}

	if err := p.reserve(o); err != nil {
		metrics.RecordPaymentSubmitted(string(in.Method), "conflict")
		return nil, err
	}
	defer p.release(o.ID)

	payment := &Payment{
		OrderID:   o.ID,
		Amount:    amount,
		Currency:  p.currency,
		Method:    in.Method,
		PaidAt:    time.Now().UTC(),
		CreatedBy: in.CreatedBy,
	}
	if notes := strings.TrimSpace(in.Notes); notes != "" {
		payment.Notes = &notes
	}

	if err := p.payments.Create(ctx, payment); err != nil {
		metrics.RecordPaymentSubmitted(string(in.Method), "transport_error")
		return nil, &TransportError{Op: "create payment", Err: err}
	}
	if err := p.orders.MarkPaid(ctx, o.ID); err != nil {
		// The payment row exists; the order flag will be reconciled from it.
		p.logger.Error().Err(err).Str("order_id", o.ID.String()).Msg("mark paid failed after payment creation")
	}

	p.orderCache.Invalidate()
	p.paymentCache.Invalidate()

	metrics.RecordPaymentSubmitted(string(in.Method), "success")
	p.logger.Info().
		Str("payment_id", payment.ID.String()).
		Str("order_id", o.ID.String()).
		Str("method", string(in.Method)).
		Float64("amount", payment.Amount).
		Msg("payment recorded")
	return payment, nil
}

// reserve marks the order as having a submission in flight. It re-checks
// the paid flag under the lock so two racing submissions cannot both pass.
func (p *Processor) reserve(o *orders.Order) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if o.PaymentStatus == orders.PaymentPaid {
		return &ConflictError{Reason: "order is already paid"}
	}
	if p.inFlight[o.ID] {
		return &ConflictError{Reason: "a payment for this order is already in progress"}
	}
	p.inFlight[o.ID] = true
	return nil
}

func (p *Processor) release(orderID uuid.UUID) {
	p.mu.Lock()
	delete(p.inFlight, orderID)
	p.mu.Unlock()
}
