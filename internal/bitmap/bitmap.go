// Package bitmap implements the order-slot free-list: a fixed
// capacity bitmap where bit i is set iff slot i is occupied. Slot 0 is
// reserved permanently as the null sentinel that terminates FIFO chains.
package bitmap

import "github.com/bits-and-blooms/bitset"

// FreeList hands out the smallest unoccupied slot and reclaims slots on
// release, backed by bits-and-blooms/bitset. NextClear already performs the
// word-at-a-time scan (skipping fully-occupied words) that the original
// source's hand-rolled find_unset attempted; wrapping it here also fixes
// that source's bug of always rescanning word 0 instead of word i.
type FreeList struct {
	bits     *bitset.BitSet
	capacity uint32
}

// New creates a free-list pre-sized to capacity slots, with slot 0 marked
// occupied from construction.
func New(capacity uint32) *FreeList {
	bs := bitset.New(uint(capacity))
	bs.Set(0)
	return &FreeList{bits: bs, capacity: capacity}
}

// FindUnset returns the smallest free slot and marks it occupied. ok is
// false if the free-list is exhausted; callers (the book) treat that as
// BookFull rather than growing past the pre-sized capacity.
func (f *FreeList) FindUnset() (slot uint32, ok bool) {
	next, found := f.bits.NextClear(0)
	if !found || uint32(next) >= f.capacity {
		return 0, false
	}
	f.bits.Set(next)
	return uint32(next), true
}

// Clear marks slot free. It is idempotent: clearing an already-free slot,
// or slot 0, is a no-op. The original source cleared bits with XOR, which
// double-clearing would re-occupy; this implementation always sets to
// zero.
func (f *FreeList) Clear(slot uint32) {
	if slot == 0 || slot >= f.capacity {
		return
	}
	f.bits.Clear(uint(slot))
}

// MarkOccupied forces slot to occupied regardless of prior state, used by
// snapshot restore to reproduce the exact slot assignment a document
// recorded rather than re-deriving one through FindUnset.
func (f *FreeList) MarkOccupied(slot uint32) bool {
	if slot >= f.capacity {
		return false
	}
	f.bits.Set(uint(slot))
	return true
}

// IsSet reports whether slot is currently occupied.
func (f *FreeList) IsSet(slot uint32) bool {
	if slot >= f.capacity {
		return false
	}
	return f.bits.Test(uint(slot))
}

// Capacity returns the fixed slot capacity this free-list was constructed
// with.
func (f *FreeList) Capacity() uint32 {
	return f.capacity
}

// Count returns the number of currently occupied slots, including slot 0.
func (f *FreeList) Count() uint32 {
	return uint32(f.bits.Count())
}
