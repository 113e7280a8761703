// Package arena is the fixed-capacity order store addressed by slot. It
// owns no matching logic: the book decides which slot to allocate (via
// internal/bitmap) and what to link it to (via internal/priceindex); the
// arena just holds the Order values.
package arena

import "github.com/tradingcore/matchbook/internal/order"

// Arena is a pre-allocated, fixed-size vector of orders. Index 0 is the
// reserved null slot and is never dereferenced as a live order.
type Arena struct {
	slots []order.Order
}

// New allocates an arena with room for capacity live orders plus the
// reserved slot 0.
func New(capacity uint32) *Arena {
	return &Arena{slots: make([]order.Order, capacity+1)}
}

// Get returns a pointer to the order at slot for in-place mutation.
func (a *Arena) Get(slot uint32) *order.Order {
	return &a.slots[slot]
}

// Put stores o at slot, replacing whatever was previously there.
func (a *Arena) Put(slot uint32, o order.Order) {
	a.slots[slot] = o
}

// Reset clears the order at slot back to its zero value, releasing any
// references it held (useful once a slot has been returned to the
// free-list, so a stale order can't be read back by mistake).
func (a *Arena) Reset(slot uint32) {
	a.slots[slot] = order.Order{}
}

// Capacity returns the number of addressable live slots (excludes slot 0).
func (a *Arena) Capacity() uint32 {
	return uint32(len(a.slots)) - 1
}
