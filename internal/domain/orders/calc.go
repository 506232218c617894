package orders

// ActiveTests returns the billable test items of an order: everything except
// superseded and removed items. A nil order or nil test slice yields an
// empty, non-nil slice.
func ActiveTests(o *Order) []*TestItem {
	if o == nil {
		return []*TestItem{}
	}
	active := make([]*TestItem, 0, len(o.Tests))
	for _, ti := range o.Tests {
		if ti == nil {
			continue
		}
		if ti.Status == TestSuperseded || ti.Status == TestRemoved {
			continue
		}
		active = append(active, ti)
	}
	return active
}

// ActiveTotal sums the snapshotted prices of the billable test items. It is
// the single source of truth for what an order costs; payment amounts are
// always derived from it, never entered by hand.
func ActiveTotal(o *Order) float64 {
	var total float64
	for _, ti := range ActiveTests(o) {
		total += ti.PriceAtOrder
	}
	return total
}
