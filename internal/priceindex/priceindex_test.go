package priceindex

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/tradingcore/matchbook/internal/order"
)

func node(price string, qty string) order.PriceNode {
	return order.PriceNode{Price: decimal.RequireFromString(price), Qty: decimal.RequireFromString(qty)}
}

func TestIndex_MaxIsHighestPrice(t *testing.T) {
	idx := New()
	idx.Upsert(node("10", "1"))
	idx.Upsert(node("12", "1"))
	idx.Upsert(node("8", "1"))

	best, ok := idx.Max()
	assert.True(t, ok)
	assert.True(t, decimal.RequireFromString("12").Equal(best.Price))
}

func TestIndex_MinIsLowestPrice(t *testing.T) {
	idx := New()
	idx.Upsert(node("10", "1"))
	idx.Upsert(node("12", "1"))
	idx.Upsert(node("8", "1"))

	best, ok := idx.Min()
	assert.True(t, ok)
	assert.True(t, decimal.RequireFromString("8").Equal(best.Price))
}

func TestIndex_RemoveDropsLevel(t *testing.T) {
	idx := New()
	idx.Upsert(node("10", "1"))
	idx.Remove(decimal.RequireFromString("10"))
	_, ok := idx.Get(decimal.RequireFromString("10"))
	assert.False(t, ok)
}

func TestIndex_EmptyIndexHasNoLeader(t *testing.T) {
	idx := New()
	_, ok := idx.Max()
	assert.False(t, ok)
}

func TestIndex_UpsertReplacesExisting(t *testing.T) {
	idx := New()
	idx.Upsert(node("10", "1"))
	idx.Upsert(node("10", "5"))
	got, ok := idx.Get(decimal.RequireFromString("10"))
	assert.True(t, ok)
	assert.True(t, decimal.RequireFromString("5").Equal(got.Qty))
}
