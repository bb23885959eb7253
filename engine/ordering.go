package engine

import (
	"sort"
)

// ============================================================================
// ORDERING — row order, per-level label order, final assembly
// ============================================================================

// sortByOrder stably sorts leaves by their explicit order. Leaves without one
// compare equal to everything, so ties and order-less leaves keep insertion
// order. This is a weak ordering, not a total one.
func (p *pivot) sortByOrder() {
	withOrder := 0
	for _, rec := range p.leaves {
		if rec.HasOrder {
			withOrder++
		}
	}
	if withOrder == 0 {
		return
	}
	if withOrder < len(p.leaves) {
		p.warn(WarnAmbiguousOrder, -1, "%d of %d categories have no order value; they keep their input position",
			len(p.leaves)-withOrder, len(p.leaves))
	}
	sort.SliceStable(p.leaves, func(i, j int) bool {
		a, b := p.leaves[i], p.leaves[j]
		return a.HasOrder && b.HasOrder && a.Order < b.Order
	})
}

// levelOrders lists the distinct labels of each level in first-seen order.
func (p *pivot) levelOrders() [][]string {
	orders := make([][]string, p.layout.CategoryLevels)
	for level := range orders {
		seen := make(map[string]bool)
		for _, rec := range p.leaves {
			label := rec.Label(level)
			if !seen[label] {
				seen[label] = true
				orders[level] = append(orders[level], label)
			}
		}
	}
	return orders
}

type labelIndex []map[string]int

func newLabelIndex(orders [][]string) labelIndex {
	idx := make(labelIndex, len(orders))
	for level, labels := range orders {
		idx[level] = make(map[string]int, len(labels))
		for i, l := range labels {
			idx[level][l] = i
		}
	}
	return idx
}

// position returns a label's rank at a level; unknown labels rank last.
func (idx labelIndex) position(level int, label string) int {
	if i, ok := idx[level][label]; ok {
		return i
	}
	return len(idx[level])
}

// compareRecords is the final display comparator. The grand total sorts last.
// A subtotal shares its group's level-1 rank and follows the group's leaves.
func (idx labelIndex) compareRecords(a, b *SummaryRecord) int {
	if a.IsGrandTotal() != b.IsGrandTotal() {
		if a.IsGrandTotal() {
			return 1
		}
		return -1
	}
	for level := range idx {
		if d := idx.position(level, a.Label(level)) - idx.position(level, b.Label(level)); d != 0 {
			return d
		}
		if level == 0 && a.IsSubtotal() != b.IsSubtotal() {
			if a.IsSubtotal() {
				return 1
			}
			return -1
		}
	}
	return 0
}

// assemble orders leaves, subtotals and the grand total for display.
func assemble(leaves, subtotals []*SummaryRecord, grand *SummaryRecord, orders [][]string) []SummaryRecord {
	all := make([]*SummaryRecord, 0, len(leaves)+len(subtotals)+1)
	all = append(all, leaves...)
	all = append(all, subtotals...)
	if grand != nil {
		all = append(all, grand)
	}

	idx := newLabelIndex(orders)
	sort.SliceStable(all, func(i, j int) bool { return idx.compareRecords(all[i], all[j]) < 0 })

	out := make([]SummaryRecord, len(all))
	for i, rec := range all {
		out[i] = *rec
	}
	return out
}
