package order

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

// Info is the ingress contract a caller submits for a new order. It is
// deliberately separate from Order: Order carries arena/book bookkeeping
// fields (slots, remain/trade qty) that a caller never supplies.
type Info struct {
	ID           uint64  `validate:"required"`
	UID          uint64  `validate:"required"`
	Op           Op      `validate:"oneof=0 1"`
	Side         Side    `validate:"oneof=0 1"`
	Price        Decimal
	RawQty       Decimal `validate:"required"`
	TakerFeeRate Decimal
	MakerFeeRate Decimal
}

// Validate checks structural well-formedness via validator tags, then the
// numeric positivity rules spec.md names explicitly: id>0, price>0 unless
// Market, raw_qty>0. validator's "required" tag only catches the Go
// zero-value case, so the positivity checks below are necessary even after
// a passing Validate() call on Price/RawQty.
func (i Info) Validate() error {
	if err := validate.Struct(i); err != nil {
		return fmt.Errorf("%w: %v", ErrIllegalOrder, err)
	}
	if i.Op != OpMarket && !i.Price.IsPositive() {
		return fmt.Errorf("%w: price must be positive for a %s order", ErrIllegalOrder, i.Op)
	}
	if !i.RawQty.IsPositive() {
		return fmt.Errorf("%w: raw_qty must be positive", ErrIllegalOrder)
	}
	if i.TakerFeeRate.IsNegative() || i.MakerFeeRate.IsNegative() {
		return fmt.Errorf("%w: fee rates must not be negative", ErrIllegalOrder)
	}
	return nil
}

// New builds an Order from validated ingress info. The returned order is
// not yet attached to any arena slot or price node.
func New(i Info) Order {
	return Order{
		ID:            i.ID,
		UID:           i.UID,
		Op:            i.Op,
		Side:          i.Side,
		Price:         i.Price,
		RawQty:        i.RawQty,
		TakerFeeRate:  i.TakerFeeRate,
		MakerFeeRate:  i.MakerFeeRate,
		RemainQty:     i.RawQty,
		TradeQty:      decimal.Zero,
		TradeOppoQty:  decimal.Zero,
		AvgTradePrice: decimal.Zero,
		Fee:           decimal.Zero,
		Status:        StatusPaddingTrade,
		Used:          true,
	}
}
