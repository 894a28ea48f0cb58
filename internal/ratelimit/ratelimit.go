package ratelimit

import (
	"fmt"
	"sync"
)

// Budget caps the number of AI requests a single run may issue.
// The free Gemini tier tolerates only a handful of calls per hour, so
// the pipeline scores at most Budget.max candidates and treats the rest
// as not relevant.
type Budget struct {
	mu   sync.Mutex
	used int
	max  int // 0 = unlimited
}

func NewBudget(max int) *Budget {
	return &Budget{max: max}
}

// Allow reserves one request from the budget. It returns false once the
// budget is exhausted.
func (b *Budget) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.max > 0 && b.used >= b.max {
		return false
	}
	b.used++
	return true
}

func (b *Budget) Used() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.used
}

func (b *Budget) Remaining() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.max <= 0 {
		return -1
	}
	r := b.max - b.used
	if r < 0 {
		r = 0
	}
	return r
}

func (b *Budget) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.max <= 0 {
		return fmt.Sprintf("%d/unlimited", b.used)
	}
	return fmt.Sprintf("%d/%d", b.used, b.max)
}
