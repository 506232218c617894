package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/labops/labops/internal/domain/orders"
)

func viewFixture(name string, orderedAt time.Time, p *Payment) *OrderPaymentView {
	o := &orders.Order{ID: uuid.New(), PatientID: "P-" + name, PatientName: name, OrderedAt: orderedAt, PaymentStatus: orders.PaymentUnpaid}
	if p != nil {
		p.OrderID = o.ID
		o.PaymentStatus = orders.PaymentPaid
	}
	return &OrderPaymentView{Order: o, Payment: p}
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02T15:04:05", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestFilters_NoConstraintsSortsNewestFirst(t *testing.T) {
	v1 := viewFixture("Alice", day("2026-08-01T10:00:00"), nil)
	v2 := viewFixture("Bob", day("2026-08-03T10:00:00"), nil)
	v3 := viewFixture("Carol", day("2026-08-02T10:00:00"), nil)

	out := Filters{}.Apply([]*OrderPaymentView{v1, v2, v3})
	if len(out) != 3 {
		t.Fatalf("expected 3 views, got %d", len(out))
	}
	if out[0] != v2 || out[1] != v3 || out[2] != v1 {
		t.Error("expected newest-first ordering")
	}
}

func TestFilters_SearchIsCaseInsensitive(t *testing.T) {
	v1 := viewFixture("Alice Smith", day("2026-08-01T10:00:00"), nil)
	v2 := viewFixture("Bob Jones", day("2026-08-02T10:00:00"), nil)

	out := Filters{Search: "alice"}.Apply([]*OrderPaymentView{v1, v2})
	if len(out) != 1 || out[0] != v1 {
		t.Errorf("expected only Alice, got %d views", len(out))
	}

	out = Filters{Search: "p-bob"}.Apply([]*OrderPaymentView{v1, v2})
	if len(out) != 1 || out[0] != v2 {
		t.Errorf("expected patient id match for Bob, got %d views", len(out))
	}
}

func TestFilters_Status(t *testing.T) {
	paid := viewFixture("Paid", day("2026-08-01T10:00:00"), &Payment{ID: uuid.New(), Method: MethodCash, PaidAt: time.Now()})
	unpaid := viewFixture("Unpaid", day("2026-08-02T10:00:00"), nil)
	views := []*OrderPaymentView{paid, unpaid}

	out := Filters{Status: []string{"paid"}}.Apply(views)
	if len(out) != 1 || out[0] != paid {
		t.Error("expected only the paid view")
	}
	out = Filters{Status: []string{"unpaid"}}.Apply(views)
	if len(out) != 1 || out[0] != unpaid {
		t.Error("expected only the unpaid view")
	}
	// both statuses selected passes everything
	out = Filters{Status: []string{"paid", "unpaid"}}.Apply(views)
	if len(out) != 2 {
		t.Errorf("expected both views for the full status set, got %d", len(out))
	}
	// unknown values degrade to no-op
	out = Filters{Status: []string{"bogus"}}.Apply(views)
	if len(out) != 2 {
		t.Errorf("expected unknown status to pass everything, got %d", len(out))
	}
}

func TestFilters_StatusUsesOrderColumn(t *testing.T) {
	// a stale payment attached to an order still marked unpaid must not
	// move the row into the paid bucket
	stale := viewFixture("Stale", day("2026-08-01T10:00:00"), &Payment{ID: uuid.New(), Method: MethodCash, PaidAt: time.Now()})
	stale.Order.PaymentStatus = orders.PaymentUnpaid

	out := Filters{Status: []string{"paid"}}.Apply([]*OrderPaymentView{stale})
	if len(out) != 0 {
		t.Error("stale payment leaked an unpaid order into the paid set")
	}
	out = Filters{Status: []string{"unpaid"}}.Apply([]*OrderPaymentView{stale})
	if len(out) != 1 {
		t.Error("unpaid order missing from the unpaid set")
	}
}

func TestFilters_Methods(t *testing.T) {
	cash := viewFixture("Cash", day("2026-08-01T10:00:00"), &Payment{ID: uuid.New(), Method: MethodCash, PaidAt: time.Now()})
	card := viewFixture("Card", day("2026-08-02T10:00:00"), &Payment{ID: uuid.New(), Method: MethodCreditCard, PaidAt: time.Now()})
	insurance := viewFixture("Insurance", day("2026-08-03T10:00:00"), &Payment{ID: uuid.New(), Method: MethodInsurance, PaidAt: time.Now()})
	unpaid := viewFixture("Unpaid", day("2026-08-04T10:00:00"), nil)
	views := []*OrderPaymentView{cash, card, insurance, unpaid}

	out := Filters{Methods: []PaymentMethod{MethodCash}}.Apply(views)
	if len(out) != 1 || out[0] != cash {
		t.Errorf("expected only the cash view, got %d", len(out))
	}

	// multi-method set keeps every row whose method is in the set
	out = Filters{Methods: []PaymentMethod{MethodCash, MethodInsurance}}.Apply(views)
	if len(out) != 2 {
		t.Fatalf("expected 2 views for the method set, got %d", len(out))
	}
	for _, v := range out {
		if v == card || v == unpaid {
			t.Error("row outside the method set leaked through")
		}
	}
}

func TestFilters_StatusKeepsRelativeOrder(t *testing.T) {
	// all on the same instant so the sort stage cannot reorder them
	at := day("2026-08-01T10:00:00")
	paid := func(name string) *OrderPaymentView {
		return viewFixture(name, at, &Payment{ID: uuid.New(), Method: MethodCash, PaidAt: time.Now()})
	}
	p1, p2, p3 := paid("P1"), paid("P2"), paid("P3")
	u1 := viewFixture("U1", at, nil)
	u2 := viewFixture("U2", at, nil)

	out := Filters{Status: []string{"paid"}}.Apply([]*OrderPaymentView{p1, u1, p2, u2, p3})
	if len(out) != 3 {
		t.Fatalf("expected 3 paid rows, got %d", len(out))
	}
	if out[0] != p1 || out[1] != p2 || out[2] != p3 {
		t.Error("paid rows not in original relative order")
	}
}

func TestFilters_DateRangeInclusive(t *testing.T) {
	early := viewFixture("Early", day("2026-08-01T00:00:00"), nil)
	lateInDay := viewFixture("LateInDay", day("2026-08-05T23:59:59"), nil)
	after := viewFixture("After", day("2026-08-06T00:00:00"), nil)
	views := []*OrderPaymentView{early, lateInDay, after}

	out := Filters{From: "2026-08-01", To: "2026-08-05"}.Apply(views)
	if len(out) != 2 {
		t.Fatalf("expected 2 views in range, got %d", len(out))
	}
	for _, v := range out {
		if v == after {
			t.Error("view after the inclusive end date leaked through")
		}
	}
}

func TestFilters_DateRangeMillisecondBoundary(t *testing.T) {
	inside := viewFixture("Inside", day("2026-01-01T23:59:59").Add(999*time.Millisecond), nil)
	outside := viewFixture("Outside", day("2026-01-02T00:00:00").Add(time.Millisecond), nil)

	out := Filters{From: "2026-01-01", To: "2026-01-01"}.Apply([]*OrderPaymentView{inside, outside})
	if len(out) != 1 || out[0] != inside {
		t.Errorf("expected only the end-of-day row, got %d rows", len(out))
	}
}

func TestFilters_MalformedDateIsNoOp(t *testing.T) {
	v1 := viewFixture("A", day("2026-08-01T10:00:00"), nil)
	v2 := viewFixture("B", day("2026-08-02T10:00:00"), nil)

	out := Filters{From: "not-a-date", To: "08/05/2026"}.Apply([]*OrderPaymentView{v1, v2})
	if len(out) != 2 {
		t.Errorf("malformed dates must not filter anything, got %d views", len(out))
	}
}

func TestFilters_DoesNotMutateInput(t *testing.T) {
	v1 := viewFixture("A", day("2026-08-01T10:00:00"), nil)
	v2 := viewFixture("B", day("2026-08-02T10:00:00"), nil)
	in := []*OrderPaymentView{v1, v2}

	Filters{}.Apply(in)
	if in[0] != v1 || in[1] != v2 {
		t.Error("input slice was reordered")
	}
}
