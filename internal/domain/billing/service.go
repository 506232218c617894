package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/labops/labops/internal/platform/metrics"
)

// Service assembles the reconciled billing view from the order and payment
// sources and applies the filter pipeline.
type Service struct {
	orderSource   OrderSource
	paymentSource PaymentSource
	payments      PaymentRepository
	logger        zerolog.Logger
}

func NewService(orderSource OrderSource, paymentSource PaymentSource, payments PaymentRepository, logger zerolog.Logger) *Service {
	return &Service{
		orderSource:   orderSource,
		paymentSource: paymentSource,
		payments:      payments,
		logger:        logger.With().Str("component", "billing").Logger(),
	}
}

// Views returns the filtered, newest-first reconciliation of all orders
// against their effective payments.
func (s *Service) Views(ctx context.Context, f Filters) ([]*OrderPaymentView, error) {
	orderList, err := s.orderSource.List(ctx)
	if err != nil {
		return nil, &TransportError{Op: "load orders", Err: err}
	}
	payments, err := s.paymentSource.List(ctx)
	if err != nil {
		return nil, &TransportError{Op: "load payments", Err: err}
	}

	views := Reconcile(orderList, payments)
	metrics.RecordReconciledViews(len(views))
	return f.Apply(views), nil
}

// GetPayment looks up a single payment by ID.
func (s *Service) GetPayment(ctx context.Context, id uuid.UUID) (*Payment, error) {
	return s.payments.GetByID(ctx, id)
}

// ListPayments pages through the raw payment ledger.
func (s *Service) ListPayments(ctx context.Context, limit, offset int) ([]*Payment, int, error) {
	payments, total, err := s.payments.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, &TransportError{Op: "list payments", Err: err}
	}
	return payments, total, nil
}
