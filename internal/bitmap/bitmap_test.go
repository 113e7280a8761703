package bitmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_Slot0ReservedFromConstruction(t *testing.T) {
	fl := New(8)
	assert.True(t, fl.IsSet(0))
}

func TestFindUnset_SkipsReservedSlot(t *testing.T) {
	fl := New(8)
	slot, ok := fl.FindUnset()
	assert.True(t, ok)
	assert.Equal(t, uint32(1), slot)
}

func TestFindUnset_ReturnsSmallestFree(t *testing.T) {
	fl := New(8)
	a, _ := fl.FindUnset()
	b, _ := fl.FindUnset()
	fl.Clear(a)
	c, _ := fl.FindUnset()
	assert.Equal(t, a, c, "the freed slot should be reused before any higher slot")
	assert.NotEqual(t, a, b)
}

func TestFindUnset_ExhaustionReturnsFalse(t *testing.T) {
	fl := New(2) // slot 0 reserved, slot 1 the only allocatable slot
	_, ok := fl.FindUnset()
	assert.True(t, ok)
	_, ok = fl.FindUnset()
	assert.False(t, ok, "free-list is exhausted once every non-reserved slot is occupied")
}

func TestClear_IsIdempotent(t *testing.T) {
	fl := New(8)
	slot, _ := fl.FindUnset()
	fl.Clear(slot)
	assert.False(t, fl.IsSet(slot))
	fl.Clear(slot) // double-clear must not flip the bit back on
	assert.False(t, fl.IsSet(slot))
}

func TestClear_Slot0IsNoOp(t *testing.T) {
	fl := New(8)
	fl.Clear(0)
	assert.True(t, fl.IsSet(0), "slot 0 is the permanent null sentinel and can never be freed")
}

func TestClear_OutOfRangeIsNoOp(t *testing.T) {
	fl := New(4)
	assert.NotPanics(t, func() { fl.Clear(100) })
}

func TestMarkOccupied_SetsSpecificSlot(t *testing.T) {
	fl := New(8)
	ok := fl.MarkOccupied(5)
	assert.True(t, ok)
	assert.True(t, fl.IsSet(5))
}

func TestMarkOccupied_OutOfRangeReturnsFalse(t *testing.T) {
	fl := New(4)
	assert.False(t, fl.MarkOccupied(100))
}
