package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/labops/labops/internal/domain/catalog"
	"github.com/labops/labops/internal/platform/metrics"
)

type Service struct {
	repo    Repository
	catalog catalog.Repository
	logger  zerolog.Logger
	notify  func()
}

func NewService(repo Repository, cat catalog.Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:    repo,
		catalog: cat,
		logger:  logger.With().Str("component", "orders").Logger(),
	}
}

// NotifyChanges registers a callback invoked after any order mutation.
// Downstream read caches hang their invalidation off it.
func (s *Service) NotifyChanges(fn func()) { s.notify = fn }

func (s *Service) changed() {
	if s.notify != nil {
		s.notify()
	}
}

type CreateOrderInput struct {
	PatientID   string      `json:"patient_id"`
	PatientName string      `json:"patient_name"`
	OrderedAt   *time.Time  `json:"ordered_at,omitempty"`
	TestIDs     []uuid.UUID `json:"test_ids"`
}

// CreateOrder registers a new lab order. Catalog prices are snapshotted onto
// each line item so the order total is insulated from later price changes.
func (s *Service) CreateOrder(ctx context.Context, in CreateOrderInput) (*Order, error) {
	in.PatientID = strings.TrimSpace(in.PatientID)
	in.PatientName = strings.TrimSpace(in.PatientName)
	if in.PatientID == "" {
		return nil, fmt.Errorf("patient_id is required")
	}
	if in.PatientName == "" {
		return nil, fmt.Errorf("patient_name is required")
	}
	if len(in.TestIDs) == 0 {
		return nil, fmt.Errorf("at least one test is required")
	}

	orderedAt := time.Now().UTC()
	if in.OrderedAt != nil {
		orderedAt = in.OrderedAt.UTC()
	}

	o := &Order{
		PatientID:     in.PatientID,
		PatientName:   in.PatientName,
		OrderedAt:     orderedAt,
		Status:        OrderRegistered,
		PaymentStatus: PaymentUnpaid,
	}

	seen := make(map[uuid.UUID]bool, len(in.TestIDs))
	for _, testID := range in.TestIDs {
		if seen[testID] {
			return nil, fmt.Errorf("duplicate test %s in order", testID)
		}
		seen[testID] = true

		td, err := s.catalog.GetByID(ctx, testID)
		if err != nil {
			return nil, fmt.Errorf("unknown test %s", testID)
		}
		if !td.Active {
			return nil, fmt.Errorf("test %s is not orderable", td.Code)
		}
		o.Tests = append(o.Tests, &TestItem{
			TestID:       td.ID,
			Code:         td.Code,
			Name:         td.Name,
			PriceAtOrder: td.Price,
			Status:       TestOrdered,
		})
	}
	o.TotalPrice = ActiveTotal(o)

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.changed()
	metrics.RecordOrderCreated()
	s.logger.Info().
		Str("order_id", o.ID.String()).
		Str("patient_id", o.PatientID).
		Int("tests", len(o.Tests)).
		Float64("total", o.TotalPrice).
		Msg("order created")
	return o, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter, limit, offset int) ([]*Order, int, error) {
	return s.repo.List(ctx, f, limit, offset)
}

// UpdateTestStatus transitions one test item on an order, recomputes the
// billable total, and records the change in the order history.
func (s *Service) UpdateTestStatus(ctx context.Context, orderID, itemID uuid.UUID, to TestStatus, changedBy string) (*Order, error) {
	switch to {
	case TestOrdered, TestCollected, TestValidated, TestSuperseded, TestRemoved:
	default:
		return nil, fmt.Errorf("unknown test status %q", to)
	}

	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("order not found")
	}

	var item *TestItem
	for _, ti := range o.Tests {
		if ti.ID == itemID {
			item = ti
			break
		}
	}
	if item == nil {
		return nil, fmt.Errorf("test item not found on order")
	}

	from := item.Status
	if !CanTransition(from, to) {
		return nil, fmt.Errorf("cannot transition test from %s to %s", from, to)
	}

	item.Status = to
	o.TotalPrice = ActiveTotal(o)
	o.Status = deriveOrderStatus(o)

	change := &StatusChange{
		OrderID:    o.ID,
		TestItemID: item.ID,
		FromStatus: from,
		ToStatus:   to,
		ChangedBy:  changedBy,
	}
	if err := s.repo.UpdateTestStatus(ctx, o, item, change); err != nil {
		return nil, fmt.Errorf("update test status: %w", err)
	}

	s.changed()
	s.logger.Info().
		Str("order_id", o.ID.String()).
		Str("test_item_id", item.ID.String()).
		Str("from", string(from)).
		Str("to", string(to)).
		Msg("test status updated")
	return o, nil
}

// deriveOrderStatus rolls the item states up into the order state. All
// active items validated means completed; no active items left means
// cancelled; any collected or validated item means in progress.
func deriveOrderStatus(o *Order) OrderStatus {
	active := ActiveTests(o)
	if len(active) == 0 {
		return OrderCancelled
	}
	allValidated := true
	anyStarted := false
	for _, ti := range active {
		if ti.Status != TestValidated {
			allValidated = false
		}
		if ti.Status == TestCollected || ti.Status == TestValidated {
			anyStarted = true
		}
	}
	if allValidated {
		return OrderCompleted
	}
	if anyStarted {
		return OrderInProgress
	}
	return OrderRegistered
}

func (s *Service) History(ctx context.Context, orderID uuid.UUID) ([]*StatusChange, error) {
	return s.repo.History(ctx, orderID)
}
