package engine

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tradingcore/matchbook/internal/order"
)

// Msg is the sealed set of control messages the engine's single matcher
// goroutine accepts. Each variant carries its own reply channel so a
// caller can wait for the result without the engine holding any
// caller-specific state.
type Msg interface {
	isMsg()
}

// SimpleOrderMsg submits a new Limit or Market order.
type SimpleOrderMsg struct {
	Info  order.Info
	Reply chan<- SubmitResult
}

// CancelOrderMsg cancels a single resting order by (side, price, id, uid).
type CancelOrderMsg struct {
	Side  order.Side
	Price decimal.Decimal
	ID    uint64
	UID   uint64
	Reply chan<- CancelResult
}

// CancelAllOrderMsg cancels every resting order on both sides.
type CancelAllOrderMsg struct {
	Reply chan<- CancelAllResult
}

// SnapshotMsg requests an immediate snapshot write. CorrelationID threads
// through the resulting log lines so a caller can find the write that
// answered their request.
type SnapshotMsg struct {
	CorrelationID uuid.UUID
	Reply         chan<- SnapshotResult
}

// ShutdownMsg drains no further messages after being processed and causes
// Run to return. Supplemental to the original source, whose run() loop had
// no explicit clean-exit path.
type ShutdownMsg struct {
	Reply chan<- struct{}
}

func (SimpleOrderMsg) isMsg()    {}
func (CancelOrderMsg) isMsg()    {}
func (CancelAllOrderMsg) isMsg() {}
func (SnapshotMsg) isMsg()       {}
func (ShutdownMsg) isMsg()       {}

// SubmitResult is the reply to a SimpleOrderMsg.
type SubmitResult struct {
	Records []*order.TradeRecord
	Err     error
}

// CancelResult is the reply to a CancelOrderMsg.
type CancelResult struct {
	Record *order.TradeRecord
	Err    error
}

// CancelAllResult is the reply to a CancelAllOrderMsg.
type CancelAllResult struct {
	Records []*order.TradeRecord
}

// SnapshotResult is the reply to a SnapshotMsg.
type SnapshotResult struct {
	Path string
	Err  error
}
