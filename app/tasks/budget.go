package tasks

import (
	"go.uber.org/atomic"
)

// EditBudget caps the number of edits made in one run. A limit of zero
// means no cap.
type EditBudget struct {
	limit int64
	used  atomic.Int64
}

func NewEditBudget(limit int) *EditBudget {
	return &EditBudget{limit: int64(limit)}
}

// Take reserves one edit. It returns false once the limit is reached.
func (b *EditBudget) Take() bool {
	if b.limit <= 0 {
		b.used.Inc()
		return true
	}
	for {
		used := b.used.Load()
		if used >= b.limit {
			return false
		}
		if b.used.CompareAndSwap(used, used+1) {
			return true
		}
	}
}

// Refund returns an edit reserved by Take that was never made.
func (b *EditBudget) Refund() {
	b.used.Dec()
}

func (b *EditBudget) Exhausted() bool {
	return b.limit > 0 && b.used.Load() >= b.limit
}

func (b *EditBudget) Used() int {
	return int(b.used.Load())
}
