package orders

import "testing"

func item(price float64, status TestStatus) *TestItem {
	return &TestItem{PriceAtOrder: price, Status: status}
}

func TestActiveTotal_NilOrder(t *testing.T) {
	if got := ActiveTotal(nil); got != 0 {
		t.Errorf("expected 0 for nil order, got %v", got)
	}
	if tests := ActiveTests(nil); tests == nil || len(tests) != 0 {
		t.Errorf("expected empty non-nil slice for nil order, got %v", tests)
	}
}

func TestActiveTotal_NoTests(t *testing.T) {
	o := &Order{}
	if got := ActiveTotal(o); got != 0 {
		t.Errorf("expected 0 for order with no tests, got %v", got)
	}
}

func TestActiveTotal_ExcludesSupersededAndRemoved(t *testing.T) {
	o := &Order{Tests: []*TestItem{
		item(50, TestRemoved),
		item(30, TestValidated),
	}}
	if got := ActiveTotal(o); got != 30 {
		t.Errorf("expected 30, got %v", got)
	}

	o = &Order{Tests: []*TestItem{
		item(100, TestValidated),
	}}
	if got := ActiveTotal(o); got != 100 {
		t.Errorf("expected 100, got %v", got)
	}
}

func TestActiveTotal_AllLifecycleStates(t *testing.T) {
	o := &Order{Tests: []*TestItem{
		item(10, TestOrdered),
		item(20, TestCollected),
		item(40, TestValidated),
		item(80, TestSuperseded),
		item(160, TestRemoved),
	}}
	if got := ActiveTotal(o); got != 70 {
		t.Errorf("expected 70 (ordered+collected+validated), got %v", got)
	}
	if got := len(ActiveTests(o)); got != 3 {
		t.Errorf("expected 3 active tests, got %d", got)
	}
}

func TestActiveTests_SkipsNilItems(t *testing.T) {
	o := &Order{Tests: []*TestItem{nil, item(5, TestOrdered), nil}}
	if got := ActiveTotal(o); got != 5 {
		t.Errorf("expected 5, got %v", got)
	}
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to TestStatus
		ok       bool
	}{
		{TestOrdered, TestCollected, true},
		{TestCollected, TestValidated, true},
		{TestOrdered, TestRemoved, true},
		{TestValidated, TestSuperseded, true},
		{TestOrdered, TestValidated, false},
		{TestValidated, TestCollected, false},
		{TestRemoved, TestOrdered, false},
		{TestSuperseded, TestCollected, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.ok {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.ok)
		}
	}
}
