package order

import (
	"time"

	"github.com/segmentio/ksuid"
	"github.com/shopspring/decimal"
)

// genTradeID replaces the original source's stubbed gen_trade_id(), which
// always returned 1. ksuid gives a unique, roughly time-sortable id without
// needing a shared counter across matcher instances.
func genTradeID() string {
	return ksuid.New().String()
}

// Trade settles a match between a resting maker (the receiver, o) and an
// incoming taker. o must be a resting Limit order; callers never call Trade
// on a Market order since a Market order never rests. The trade price is
// always the maker's price, regardless of the taker's op.
//
// Quantity accounting is always base-denominated in TradeQty and
// quote-denominated in TradeOppoQty for both sides, including a Market Bid
// taker whose RemainQty is itself quote-denominated). This keeps
// AvgTradePrice = TradeOppoQty / TradeQty a single consistent formula for
// every order, maker or taker, limit or market. See DESIGN.md: the original
// source computes this ratio inverted for a Market-Ask taker and swaps the
// meaning of TradeQty/TradeOppoQty for a Market-Bid taker; neither is
// reproduced here.
func (o *Order) Trade(taker *Order) *TradeRecord {
	if o.Op != OpLimit || !o.Used {
		panic(ErrNotMaker)
	}

	var tradeQty decimal.Decimal // base units
	switch {
	case taker.Op != OpMarket || taker.Side == SideAsk:
		tradeQty = decimal.Min(o.RemainQty, taker.RemainQty)
	default: // Market Bid taker: RemainQty is quote-denominated
		maxBaseFromQuote := taker.RemainQty.Div(o.Price)
		tradeQty = decimal.Min(o.RemainQty, maxBaseFromQuote)
	}

	tradeOppoQty := tradeQty.Mul(o.Price) // quote units, at the maker's price

	o.applyFill(tradeQty, tradeOppoQty, o.Price)

	if taker.Op == OpMarket && taker.Side == SideBid {
		taker.RemainQty = taker.RemainQty.Sub(tradeOppoQty)
	} else {
		taker.RemainQty = taker.RemainQty.Sub(tradeQty)
	}
	taker.TradeQty = taker.TradeQty.Add(tradeQty)
	taker.TradeOppoQty = taker.TradeOppoQty.Add(tradeOppoQty)
	if !taker.TradeQty.IsZero() {
		taker.AvgTradePrice = taker.TradeOppoQty.Div(taker.TradeQty)
	}
	taker.Fee = taker.Fee.Add(takerFee(taker, tradeQty, tradeOppoQty))
	if taker.Op == OpMarket && taker.Side == SideBid {
		if taker.RemainQty.IsZero() {
			taker.Status = StatusAllTrade
			taker.Used = false
		} else {
			taker.Status = StatusPartTrade
		}
	} else {
		taker.Status = statusAfterFill(taker)
		if taker.RawQty.Equal(taker.TradeQty) {
			taker.Used = false
		}
	}

	var unfreeze decimal.Decimal
	if taker.Op == OpLimit && taker.Side == SideBid {
		unfreeze = tradeQty.Mul(taker.Price.Sub(o.Price))
	} else {
		unfreeze = decimal.Zero
	}

	rec := &TradeRecord{
		TradeID:          genTradeID(),
		TradeQty:         tradeQty,
		TradePrice:       o.Price,
		TradeOppoQty:     tradeOppoQty,
		TradeUnfreezeQty: unfreeze,
		TimeStamp:        time.Now(),
		TradeType:        TradeTypeSimple,
	}
	populateSide(rec, o)
	populateSide(rec, taker)
	return rec
}

// applyFill updates the resting maker's own accounting after absorbing a
// fill. Split out since both Trade and future maker-side bookkeeping reuse
// the same arithmetic.
func (o *Order) applyFill(tradeQty, tradeOppoQty, tradePrice decimal.Decimal) {
	o.RemainQty = o.RemainQty.Sub(tradeQty)
	o.TradeQty = o.TradeQty.Add(tradeQty)
	o.TradeOppoQty = o.TradeOppoQty.Add(tradeOppoQty)
	if !o.TradeQty.IsZero() {
		o.AvgTradePrice = o.TradeOppoQty.Div(o.TradeQty)
	}
	o.Fee = o.Fee.Add(makerFee(o, tradeQty, tradeOppoQty))
	o.Status = statusAfterFill(o)
	if o.RawQty.Equal(o.TradeQty) {
		o.Used = false
	}
	if o.Op != OpMarket && !o.RawQty.Equal(o.RemainQty.Add(o.TradeQty)) {
		panic(ErrInvariantBroken)
	}
}

func statusAfterFill(o *Order) Status {
	if o.RawQty.Equal(o.TradeQty) {
		return StatusAllTrade
	}
	return StatusPartTrade
}

// makerFee and takerFee charge the fee in the currency the side receives:
// an Ask receives quote, a Bid receives base.
func makerFee(o *Order, tradeQty, tradeOppoQty decimal.Decimal) decimal.Decimal {
	return feeFor(o.Side, o.MakerFeeRate, tradeQty, tradeOppoQty)
}

func takerFee(o *Order, tradeQty, tradeOppoQty decimal.Decimal) decimal.Decimal {
	return feeFor(o.Side, o.TakerFeeRate, tradeQty, tradeOppoQty)
}

func feeFor(side Side, rate, tradeQty, tradeOppoQty decimal.Decimal) decimal.Decimal {
	if side == SideAsk {
		return tradeOppoQty.Mul(rate)
	}
	return tradeQty.Mul(rate)
}

// Cancel removes a resting order from active duty. It is a no-op (returns
// nil) if the order is already inactive or already fully filled. The
// emitted record carries only the cancelling order's own side.
func (o *Order) Cancel() *TradeRecord {
	if !o.Used || o.RemainQty.IsZero() {
		return nil
	}
	o.Used = false
	if o.Status == StatusPaddingTrade {
		o.Status = StatusAllCancel
	} else {
		o.Status = StatusPartCancel
	}
	rec := &TradeRecord{
		TradeID:   genTradeID(),
		TimeStamp: time.Now(),
		TradeType: TradeTypeCancel,
	}
	populateSide(rec, o)
	return rec
}

// Reject marks a Market order's uncrossed remainder as auto-cancelled. A
// Market order never rests, so this never touches the arena or a price
// node; it only finalizes the order's own accounting before the caller
// discards it.
func (o *Order) Reject() *TradeRecord {
	o.Used = false
	o.Status = StatusAutoCancel
	rec := &TradeRecord{
		TradeID:   genTradeID(),
		TimeStamp: time.Now(),
		TradeType: TradeTypeCancel,
	}
	populateSide(rec, o)
	return rec
}

func populateSide(rec *TradeRecord, o *Order) {
	if o.Side == SideBid {
		rec.BidOrderID = o.ID
		rec.BidUID = o.UID
		rec.BidOp = o.Op
		rec.BidRawQty = o.RawQty
		rec.BidRemainQty = o.RemainQty
		rec.BidRawPrice = o.Price
		rec.BidAvgPrice = o.AvgTradePrice
		rec.BidFee = o.Fee
		return
	}
	rec.AskOrderID = o.ID
	rec.AskUID = o.UID
	rec.AskOp = o.Op
	rec.AskRawQty = o.RawQty
	rec.AskRemainQty = o.RemainQty
	rec.AskRawPrice = o.Price
	rec.AskAvgPrice = o.AvgTradePrice
	rec.AskFee = o.Fee
}
