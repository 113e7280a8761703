package order

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestTrade_LimitBidTakerPartialFill(t *testing.T) {
	maker := New(Info{ID: 1, UID: 1, Op: OpLimit, Side: SideAsk, Price: dec("100"), RawQty: dec("10")})
	taker := New(Info{ID: 2, UID: 2, Op: OpLimit, Side: SideBid, Price: dec("101"), RawQty: dec("4")})

	rec := maker.Trade(&taker)
	require.NotNil(t, rec)

	assert.True(t, dec("4").Equal(rec.TradeQty))
	assert.True(t, dec("100").Equal(rec.TradePrice), "trade price is always the maker's price")
	assert.True(t, dec("400").Equal(rec.TradeOppoQty))
	assert.True(t, dec("4").Equal(rec.TradeUnfreezeQty), "bid limit taker is refunded the price improvement")

	assert.Equal(t, StatusPartTrade, maker.Status)
	assert.True(t, maker.Used)
	assert.True(t, dec("6").Equal(maker.RemainQty))

	assert.Equal(t, StatusAllTrade, taker.Status)
	assert.False(t, taker.Used)
	assert.True(t, taker.RemainQty.IsZero())
	assert.True(t, dec("100").Equal(taker.AvgTradePrice))
}

func TestTrade_MarketBidTakerQuoteDenominated(t *testing.T) {
	maker := New(Info{ID: 1, UID: 1, Op: OpLimit, Side: SideAsk, Price: dec("50"), RawQty: dec("10")})
	taker := New(Info{ID: 2, UID: 2, Op: OpMarket, Side: SideBid, RawQty: dec("500")})

	rec := maker.Trade(&taker)
	require.NotNil(t, rec)

	assert.True(t, dec("10").Equal(rec.TradeQty))
	assert.True(t, dec("500").Equal(rec.TradeOppoQty))
	assert.True(t, taker.RemainQty.IsZero())
	assert.Equal(t, StatusAllTrade, taker.Status)
	assert.True(t, dec("50").Equal(taker.AvgTradePrice))
	assert.True(t, maker.RemainQty.IsZero())
	assert.Equal(t, StatusAllTrade, maker.Status)
}

func TestTrade_MarketAskTakerAvgPriceConsistent(t *testing.T) {
	maker := New(Info{ID: 1, UID: 1, Op: OpLimit, Side: SideBid, Price: dec("20"), RawQty: dec("5")})
	taker := New(Info{ID: 2, UID: 2, Op: OpMarket, Side: SideAsk, RawQty: dec("5")})

	maker.Trade(&taker)

	// Consistent with every other branch: avg price is quote-per-base,
	// not the original source's inverted base-per-quote formula.
	assert.True(t, dec("20").Equal(taker.AvgTradePrice))
}

func TestCancel_NoOpWhenAlreadyInactive(t *testing.T) {
	o := New(Info{ID: 1, UID: 1, Op: OpLimit, Side: SideBid, Price: dec("1"), RawQty: dec("1")})
	o.Used = false
	assert.Nil(t, o.Cancel())
}

func TestCancel_PaddingBecomesAllCancel(t *testing.T) {
	o := New(Info{ID: 1, UID: 1, Op: OpLimit, Side: SideBid, Price: dec("1"), RawQty: dec("1")})
	rec := o.Cancel()
	require.NotNil(t, rec)
	assert.Equal(t, StatusAllCancel, o.Status)
	assert.False(t, o.Used)
	assert.Equal(t, uint64(1), rec.BidOrderID)
	assert.Equal(t, uint64(0), rec.AskOrderID)
}

func TestCancel_PartiallyFilledBecomesPartCancel(t *testing.T) {
	maker := New(Info{ID: 1, UID: 1, Op: OpLimit, Side: SideAsk, Price: dec("10"), RawQty: dec("10")})
	taker := New(Info{ID: 2, UID: 2, Op: OpLimit, Side: SideBid, Price: dec("10"), RawQty: dec("3")})
	maker.Trade(&taker)

	rec := maker.Cancel()
	require.NotNil(t, rec)
	assert.Equal(t, StatusPartCancel, maker.Status)
}

func TestInfoValidate_RejectsNonPositiveQty(t *testing.T) {
	i := Info{ID: 1, UID: 1, Op: OpLimit, Side: SideBid, Price: dec("1"), RawQty: dec("0")}
	err := i.Validate()
	assert.ErrorIs(t, err, ErrIllegalOrder)
}

func TestInfoValidate_MarketOrderAllowsZeroPrice(t *testing.T) {
	i := Info{ID: 1, UID: 1, Op: OpMarket, Side: SideAsk, RawQty: dec("1")}
	assert.NoError(t, i.Validate())
}
