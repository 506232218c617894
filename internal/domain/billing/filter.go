package billing

import (
	"sort"
	"strings"
	"time"

	"github.com/labops/labops/internal/domain/orders"
)

// Filters narrows the reconciled billing view. Empty values mean "no
// constraint"; malformed values (unknown status, bad date) are treated as
// absent rather than failing the request. Status and Methods are sets: a
// row passes when its value is in the set.
type Filters struct {
	Search  string
	Status  []string // subset of {"paid", "unpaid"}
	Methods []PaymentMethod
	From    string // YYYY-MM-DD, inclusive
	To      string // YYYY-MM-DD, inclusive through end of day
}

const dateLayout = "2006-01-02"

// Apply runs the filter pipeline over the views and returns them newest
// first. Each stage is pure; the input slice is never mutated.
func (f Filters) Apply(views []*OrderPaymentView) []*OrderPaymentView {
	out := filterSearch(views, f.Search)
	out = filterStatus(out, f.Status)
	out = filterMethods(out, f.Methods)
	out = filterDateRange(out, f.From, f.To)
	return sortByDateDesc(out)
}

func filterSearch(views []*OrderPaymentView, q string) []*OrderPaymentView {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return views
	}
	out := make([]*OrderPaymentView, 0, len(views))
	for _, v := range views {
		if matchesSearch(v.Order, q) {
			out = append(out, v)
		}
	}
	return out
}

func matchesSearch(o *orders.Order, q string) bool {
	if strings.Contains(strings.ToLower(o.PatientName), q) {
		return true
	}
	if strings.Contains(strings.ToLower(o.PatientID), q) {
		return true
	}
	return strings.Contains(strings.ToLower(o.ID.String()), q)
}

// filterStatus keeps rows whose order payment status is in the selected
// set. The stored order status decides, not payment presence, so a stale
// payment on an unpaid order does not move the row. Unknown values are
// dropped from the set; an empty set passes everything through.
func filterStatus(views []*OrderPaymentView, statuses []string) []*OrderPaymentView {
	want := make(map[string]bool, len(statuses))
	for _, s := range statuses {
		if s == "paid" || s == "unpaid" {
			want[s] = true
		}
	}
	if len(want) == 0 {
		return views
	}
	out := make([]*OrderPaymentView, 0, len(views))
	for _, v := range views {
		status := "unpaid"
		if v.Order.PaymentStatus == orders.PaymentPaid {
			status = "paid"
		}
		if want[status] {
			out = append(out, v)
		}
	}
	return out
}

// filterMethods keeps rows whose resolved payment method is in the
// selected set. Rows without a settled payment never match a non-empty set.
func filterMethods(views []*OrderPaymentView, methods []PaymentMethod) []*OrderPaymentView {
	if len(methods) == 0 {
		return views
	}
	want := make(map[PaymentMethod]bool, len(methods))
	for _, m := range methods {
		want[m] = true
	}
	out := make([]*OrderPaymentView, 0, len(views))
	for _, v := range views {
		if p := v.Settled(); p != nil && want[p.Method] {
			out = append(out, v)
		}
	}
	return out
}

func filterDateRange(views []*OrderPaymentView, from, to string) []*OrderPaymentView {
	var fromT, toT time.Time
	var haveFrom, haveTo bool

	if from != "" {
		if t, err := time.Parse(dateLayout, from); err == nil {
			fromT, haveFrom = t, true
		}
	}
	if to != "" {
		if t, err := time.Parse(dateLayout, to); err == nil {
			// inclusive through the end of the day
			toT, haveTo = t.Add(24*time.Hour-time.Millisecond), true
		}
	}
	if !haveFrom && !haveTo {
		return views
	}

	out := make([]*OrderPaymentView, 0, len(views))
	for _, v := range views {
		d := v.Order.OrderedAt
		if haveFrom && d.Before(fromT) {
			continue
		}
		if haveTo && d.After(toT) {
			continue
		}
		out = append(out, v)
	}
	return out
}

func sortByDateDesc(views []*OrderPaymentView) []*OrderPaymentView {
	out := make([]*OrderPaymentView, len(views))
	copy(out, views)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order.OrderedAt.After(out[j].Order.OrderedAt)
	})
	return out
}
