// Package order defines the order entity, its ingress contract, and the
// price-time matching transitions (trade, cancel) described by the
// matching core.
package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Decimal is the fixed-point type used for every price and quantity field
// in the book. Equality on Decimal is exact, which the AllTrade/AllCancel
// status transitions depend on.
type Decimal = decimal.Decimal

// Op identifies the operation an order requests.
type Op uint8

const (
	OpLimit Op = iota
	OpMarket
	OpCancel
)

func (o Op) String() string {
	switch o {
	case OpLimit:
		return "limit"
	case OpMarket:
		return "market"
	case OpCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// Side is the book side an order rests on or aggresses against.
type Side uint8

const (
	SideBid Side = iota
	SideAsk
)

func (s Side) String() string {
	if s == SideAsk {
		return "ask"
	}
	return "bid"
}

// Opposite returns the other side of the book.
func (s Side) Opposite() Side {
	if s == SideAsk {
		return SideBid
	}
	return SideAsk
}

// Status is the lifecycle state of a resting or processed order.
type Status uint8

const (
	StatusPaddingTrade Status = iota
	StatusPartTrade
	StatusAllTrade
	StatusPartCancel
	StatusAllCancel
	StatusAutoCancel
)

func (s Status) String() string {
	switch s {
	case StatusPaddingTrade:
		return "padding_trade"
	case StatusPartTrade:
		return "part_trade"
	case StatusAllTrade:
		return "all_trade"
	case StatusPartCancel:
		return "part_cancel"
	case StatusAllCancel:
		return "all_cancel"
	case StatusAutoCancel:
		return "auto_cancel"
	default:
		return "unknown"
	}
}

// TradeType distinguishes a resting-order fill from a cancellation record.
type TradeType uint8

const (
	TradeTypeSimple TradeType = iota
	TradeTypeCancel
)

// NullSlot is the reserved sentinel slot: slot 0 terminates pre/next chains
// and is never a real order.
const NullSlot uint32 = 0

// Order is the arena-resident order record. Fields are exported so the
// book, arena and snapshot packages can manipulate them directly, matching
// the teacher's convention of exported struct fields on hot-path types.
type Order struct {
	ID  uint64
	UID uint64

	Op   Op
	Side Side

	Price        Decimal
	RawQty       Decimal
	TakerFeeRate Decimal
	MakerFeeRate Decimal

	RemainQty     Decimal
	TradeQty      Decimal
	TradeOppoQty  Decimal
	AvgTradePrice Decimal
	Fee           Decimal
	Status        Status

	CurrSlot uint32
	PreSlot  uint32
	NextSlot uint32
	Used     bool
}

// PriceNode aggregates the resting orders at a single price on one side.
type PriceNode struct {
	Price     Decimal
	Qty       Decimal
	OrderSlot uint32 // head of the FIFO
	LastSlot  uint32 // tail of the FIFO
}

// IsZero reports whether the node is the default, empty price node used as
// the leader-cache sentinel when a side of the book is empty.
func (p PriceNode) IsZero() bool {
	return p.Price.IsZero() && p.Qty.IsZero() && p.OrderSlot == NullSlot && p.LastSlot == NullSlot
}

// TradeRecord is the immutable result of a trade or cancellation, carrying
// both sides' accounting as of the moment the record was produced.
type TradeRecord struct {
	TradeID string

	BidOrderID   uint64
	BidUID       uint64
	BidOp        Op
	BidRawQty    Decimal
	BidRemainQty Decimal
	BidRawPrice  Decimal
	BidAvgPrice  Decimal
	BidFee       Decimal

	AskOrderID   uint64
	AskUID       uint64
	AskOp        Op
	AskRawQty    Decimal
	AskRemainQty Decimal
	AskRawPrice  Decimal
	AskAvgPrice  Decimal
	AskFee       Decimal

	TradeQty         Decimal // base quantity exchanged
	TradePrice       Decimal // always the maker's price
	TradeOppoQty     Decimal // = TradeQty * TradePrice, quote denomination
	TradeUnfreezeQty Decimal // refund owed to a bid limit taker on price improvement

	TimeStamp time.Time
	TradeType TradeType
}
