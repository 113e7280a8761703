// Package book implements the single-market price-time priority order
// book: two price-indexed FIFOs (bid descending, ask ascending) with
// cached leaders, backed by a fixed-capacity arena and bitmap free-list.
package book

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/tradingcore/matchbook/internal/arena"
	"github.com/tradingcore/matchbook/internal/bitmap"
	"github.com/tradingcore/matchbook/internal/order"
	"github.com/tradingcore/matchbook/internal/priceindex"
)

// Config parameterizes a new OrderBook. Loaded by internal/config from
// viper in production; tests construct it directly.
type Config struct {
	Market      string
	MaxOrderNum uint32
}

// OrderBook is the single-writer matching core. Every exported method
// assumes it is called from the one goroutine that owns the book; see
// internal/engine for the channel-drain loop that provides that guarantee.
// No mutex guards book state; none is needed under that contract.
type OrderBook struct {
	market    string
	arena     *arena.Arena
	freelist  *bitmap.FreeList
	bidIndex  *priceindex.Index
	askIndex  *priceindex.Index
	bidLeader order.PriceNode
	askLeader order.PriceNode
	log       *zap.Logger
}

// New constructs an empty order book pre-sized to cfg.MaxOrderNum resting
// orders.
func New(cfg Config, log *zap.Logger) *OrderBook {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrderBook{
		market:   cfg.Market,
		arena:    arena.New(cfg.MaxOrderNum),
		freelist: bitmap.New(cfg.MaxOrderNum + 1),
		bidIndex: priceindex.New(),
		askIndex: priceindex.New(),
		log:      log.With(zap.String("market", cfg.Market)),
	}
}

// Market returns the market symbol this book serves.
func (b *OrderBook) Market() string {
	return b.market
}

func (b *OrderBook) indexFor(side order.Side) *priceindex.Index {
	if side == order.SideBid {
		return b.bidIndex
	}
	return b.askIndex
}

func (b *OrderBook) leaderFor(side order.Side) *order.PriceNode {
	if side == order.SideBid {
		return &b.bidLeader
	}
	return &b.askLeader
}

func (b *OrderBook) refreshLeader(side order.Side) {
	idx := b.indexFor(side)
	var best order.PriceNode
	var ok bool
	if side == order.SideBid {
		best, ok = idx.Max()
	} else {
		best, ok = idx.Min()
	}
	if !ok {
		best = order.PriceNode{}
	}
	*b.leaderFor(side) = best
}

// leaderBeats reports whether price is at least as good as the current
// leader price on side, i.e. whether it should become the new leader.
func leaderBeats(side order.Side, leader order.PriceNode, price decimal.Decimal) bool {
	if leader.IsZero() {
		return true
	}
	if leader.Price.Equal(price) {
		return true // same price level: leader's cached copy needs refreshing
	}
	if side == order.SideBid {
		return price.GreaterThan(leader.Price)
	}
	return price.LessThan(leader.Price)
}

// Submit validates and processes a new Limit or Market order, returning
// every trade (and, for Market, cancellation) record it produced in
// chronological order.
func (b *OrderBook) Submit(info order.Info) ([]*order.TradeRecord, error) {
	if err := info.Validate(); err != nil {
		return nil, err
	}
	o := order.New(info)
	switch o.Op {
	case order.OpLimit:
		return b.limitMatch(&o)
	case order.OpMarket:
		return b.marketMatch(&o)
	default:
		return nil, fmt.Errorf("%w: op %s is not a valid Submit operation", order.ErrIllegalOrder, o.Op)
	}
}

// insertOrder allocates a slot for a Limit order's unfilled remainder and
// links it into the appropriate price node's FIFO, creating the node if
// this is the first order at that price.
func (b *OrderBook) insertOrder(o *order.Order) error {
	slot, ok := b.freelist.FindUnset()
	if !ok {
		return ErrBookFull
	}
	o.CurrSlot = slot

	idx := b.indexFor(o.Side)
	node, exists := idx.Get(o.Price)
	if exists {
		tail := node.LastSlot
		b.arena.Get(tail).NextSlot = slot
		o.PreSlot = tail
		o.NextSlot = order.NullSlot
		node.LastSlot = slot
		node.Qty = node.Qty.Add(o.RemainQty)
	} else {
		o.PreSlot = order.NullSlot
		o.NextSlot = order.NullSlot
		node = order.PriceNode{
			Price:     o.Price,
			Qty:       o.RemainQty,
			OrderSlot: slot,
			LastSlot:  slot,
		}
	}
	b.arena.Put(slot, *o)
	idx.Upsert(node)

	leader := b.leaderFor(o.Side)
	if leaderBeats(o.Side, *leader, o.Price) {
		*leader = node
	}

	b.log.Debug("order inserted",
		zap.Uint64("order_id", o.ID),
		zap.String("side", o.Side.String()),
		zap.Uint32("slot", slot),
		zap.String("price", o.Price.String()),
	)
	return nil
}

func crossableLimit(taker *order.Order, leader order.PriceNode) bool {
	if leader.IsZero() {
		return false
	}
	if taker.Side == order.SideBid {
		return taker.Price.GreaterThanOrEqual(leader.Price)
	}
	return taker.Price.LessThanOrEqual(leader.Price)
}

// limitMatch implements the Limit matching algorithm: repeatedly consume
// the opposite side's leader FIFO while the taker's price crosses it, then
// rest any unfilled remainder.
func (b *OrderBook) limitMatch(taker *order.Order) ([]*order.TradeRecord, error) {
	oppoSide := taker.Side.Opposite()
	var records []*order.TradeRecord

	for taker.RemainQty.IsPositive() {
		leader := *b.leaderFor(oppoSide)
		if !crossableLimit(taker, leader) {
			break
		}
		rec := b.consumeLeader(oppoSide, taker)
		records = append(records, rec)
	}

	if taker.Used && taker.RemainQty.IsPositive() {
		if err := b.insertOrder(taker); err != nil {
			return records, err
		}
	}
	return records, nil
}

// marketMatch implements the Market matching algorithm: consumes liquidity
// at any price until filled or the book runs dry, then rejects any
// remainder instead of resting it.
func (b *OrderBook) marketMatch(taker *order.Order) ([]*order.TradeRecord, error) {
	oppoSide := taker.Side.Opposite()
	var records []*order.TradeRecord

	for taker.RemainQty.IsPositive() {
		leader := *b.leaderFor(oppoSide)
		if leader.IsZero() {
			break
		}
		rec := b.consumeLeader(oppoSide, taker)
		records = append(records, rec)
	}

	if taker.RemainQty.IsPositive() {
		rec := taker.Reject()
		records = append(records, rec)
		b.log.Info("market order remainder rejected",
			zap.Uint64("order_id", taker.ID),
			zap.String("remain_qty", taker.RemainQty.String()),
		)
	}
	return records, nil
}

// consumeLeader trades the taker against the FIFO head of the opposite
// side's current leader node, updates (or retires) that node, and returns
// the resulting trade record. Callers must have already confirmed the
// leader is non-zero and crosses the taker.
func (b *OrderBook) consumeLeader(oppoSide order.Side, taker *order.Order) *order.TradeRecord {
	leaderPtr := b.leaderFor(oppoSide)
	makerSlot := leaderPtr.OrderSlot
	maker := b.arena.Get(makerSlot)

	rec := maker.Trade(taker)

	node := *leaderPtr
	node.Qty = node.Qty.Sub(rec.TradeQty)

	if !maker.Used {
		b.freelist.Clear(makerSlot)
		node.OrderSlot = maker.NextSlot
		if node.OrderSlot != order.NullSlot {
			b.arena.Get(node.OrderSlot).PreSlot = order.NullSlot
		} else {
			node.LastSlot = order.NullSlot
		}
	}

	idx := b.indexFor(oppoSide)
	if node.OrderSlot == order.NullSlot || !node.Qty.IsPositive() {
		idx.Remove(node.Price)
		b.refreshLeader(oppoSide)
	} else {
		idx.Upsert(node)
		*leaderPtr = node
	}

	b.log.Debug("trade executed",
		zap.String("trade_id", rec.TradeID),
		zap.String("trade_qty", rec.TradeQty.String()),
		zap.String("trade_price", rec.TradePrice.String()),
	)
	return rec
}

// Cancel removes a single resting order identified by its side, price and
// id from the book. id and uid must match the resting order's own fields.
func (b *OrderBook) Cancel(side order.Side, price decimal.Decimal, id, uid uint64) (*order.TradeRecord, error) {
	idx := b.indexFor(side)
	node, ok := idx.Get(price)
	if !ok {
		return nil, ErrUnknownOrder
	}

	slot := node.OrderSlot
	for slot != order.NullSlot {
		o := b.arena.Get(slot)
		if o.ID == id && o.UID == uid {
			return b.unlinkAndCancel(side, node, slot, o)
		}
		slot = o.NextSlot
	}
	return nil, ErrUnknownOrder
}

func (b *OrderBook) unlinkAndCancel(side order.Side, node order.PriceNode, slot uint32, o *order.Order) (*order.TradeRecord, error) {
	remaining := o.RemainQty

	switch {
	case node.OrderSlot == slot && node.LastSlot == slot: // sole order at this level
		node.OrderSlot = order.NullSlot
		node.LastSlot = order.NullSlot
	case node.OrderSlot == slot: // head, not tail
		node.OrderSlot = o.NextSlot
		b.arena.Get(node.OrderSlot).PreSlot = order.NullSlot
	case node.LastSlot == slot: // tail, not head
		node.LastSlot = o.PreSlot
		b.arena.Get(node.LastSlot).NextSlot = order.NullSlot
	default: // interior
		b.arena.Get(o.PreSlot).NextSlot = o.NextSlot
		b.arena.Get(o.NextSlot).PreSlot = o.PreSlot
	}
	node.Qty = node.Qty.Sub(remaining)

	b.freelist.Clear(slot)
	rec := o.Cancel()

	idx := b.indexFor(side)
	if node.OrderSlot == order.NullSlot || !node.Qty.IsPositive() {
		idx.Remove(node.Price)
		leader := b.leaderFor(side)
		if leader.Price.Equal(node.Price) {
			b.refreshLeader(side)
		}
	} else {
		idx.Upsert(node)
		leader := b.leaderFor(side)
		if leader.Price.Equal(node.Price) {
			*leader = node
		}
	}

	b.log.Debug("order cancelled",
		zap.Uint64("order_id", o.ID),
		zap.String("side", side.String()),
		zap.Uint32("slot", slot),
	)
	return rec, nil
}

// CancelAll cancels every resting order on both sides, in bid-descending
// then ask-ascending order, and returns every cancellation record
// produced. Used for the CancelAllOrder control message.
func (b *OrderBook) CancelAll() []*order.TradeRecord {
	var records []*order.TradeRecord
	records = append(records, b.cancelSide(order.SideBid)...)
	records = append(records, b.cancelSide(order.SideAsk)...)
	return records
}

// cancelSide repeatedly cancels the head order of the best remaining price
// level until the side is empty. unlinkAndCancel retires a price node (and
// advances the leader) as soon as its FIFO empties, so re-reading the best
// level each iteration is sufficient; no separate walk of each node's
// chain is needed.
func (b *OrderBook) cancelSide(side order.Side) []*order.TradeRecord {
	var records []*order.TradeRecord
	idx := b.indexFor(side)
	for {
		var node order.PriceNode
		var ok bool
		if side == order.SideBid {
			node, ok = idx.Max()
		} else {
			node, ok = idx.Min()
		}
		if !ok {
			break
		}
		slot := node.OrderSlot
		o := b.arena.Get(slot)
		rec, err := b.unlinkAndCancel(side, node, slot, o)
		if err != nil {
			break
		}
		records = append(records, rec)
	}
	return records
}

// BestBid and BestAsk expose the current leader prices for introspection
// (metrics, tests); ok is false if that side is empty.
func (b *OrderBook) BestBid() (decimal.Decimal, bool) {
	if b.bidLeader.IsZero() {
		return decimal.Decimal{}, false
	}
	return b.bidLeader.Price, true
}

func (b *OrderBook) BestAsk() (decimal.Decimal, bool) {
	if b.askLeader.IsZero() {
		return decimal.Decimal{}, false
	}
	return b.askLeader.Price, true
}

// Depth returns the number of distinct resting price levels per side.
func (b *OrderBook) Depth() (bidLevels, askLevels int) {
	return b.bidIndex.Len(), b.askIndex.Len()
}
