package arena

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/tradingcore/matchbook/internal/order"
)

func TestArena_PutAndGetRoundTrip(t *testing.T) {
	a := New(4)
	o := order.Order{ID: 42, RawQty: decimal.NewFromInt(1)}
	a.Put(1, o)
	assert.Equal(t, uint64(42), a.Get(1).ID)
}

func TestArena_GetReturnsPointerForInPlaceMutation(t *testing.T) {
	a := New(4)
	a.Put(1, order.Order{ID: 1})
	a.Get(1).Used = true
	assert.True(t, a.Get(1).Used)
}

func TestArena_ResetClearsSlot(t *testing.T) {
	a := New(4)
	a.Put(1, order.Order{ID: 7, Used: true})
	a.Reset(1)
	assert.Equal(t, uint64(0), a.Get(1).ID)
	assert.False(t, a.Get(1).Used)
}

func TestArena_Capacity(t *testing.T) {
	a := New(10)
	assert.Equal(t, uint32(10), a.Capacity())
}
