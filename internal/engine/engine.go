// Package engine owns the single matcher goroutine: it drains a buffered
// MPSC channel of Msg values and applies each one to its OrderBook in
// arrival order. The channel's capacity is fixed by New; senders block
// while it is full. The channel drain order is the canonical match order;
// no lock protects the book, and none is needed, because only this
// goroutine ever touches it.
package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/tradingcore/matchbook/internal/book"
	"github.com/tradingcore/matchbook/internal/metrics"
	"github.com/tradingcore/matchbook/internal/order"
)

// recentTradeTTL and recentTradeSweep bound the non-persistent trade cache
// used for introspection. This is deliberately not the durable trade log
// the Non-goals exclude; it just lets a caller or test ask "what recently
// traded" without re-deriving it from the channel.
const (
	recentTradeTTL   = 5 * time.Minute
	recentTradeSweep = 1 * time.Minute
)

// Engine wires an OrderBook to its message channel, snapshot writer,
// metrics recorder and logger.
type Engine struct {
	book       *book.OrderBook
	in         chan Msg
	log        *zap.Logger
	metrics    *metrics.Recorder
	snapWriter *book.SnapshotWriter
	recent     *gocache.Cache
}

// New constructs an engine around an already-built OrderBook. bufSize sizes
// the inbound channel; 0 makes it unbuffered.
func New(b *book.OrderBook, snapWriter *book.SnapshotWriter, rec *metrics.Recorder, log *zap.Logger, bufSize int) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		book:       b,
		in:         make(chan Msg, bufSize),
		log:        log.With(zap.String("market", b.Market())),
		metrics:    rec,
		snapWriter: snapWriter,
		recent:     gocache.New(recentTradeTTL, recentTradeSweep),
	}
}

// Run drains the inbound channel until ctx is cancelled or a ShutdownMsg
// is processed. It must be called from exactly one goroutine.
func (e *Engine) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-e.in:
			if !ok {
				return nil
			}
			if done := e.dispatch(msg); done {
				return nil
			}
		}
	}
}

func (e *Engine) dispatch(msg Msg) (shutdown bool) {
	start := time.Now()
	defer func() {
		if e.metrics != nil {
			e.metrics.ObserveMatch(time.Since(start))
			bidLevels, askLevels := e.book.Depth()
			e.metrics.SetDepth("bid", bidLevels)
			e.metrics.SetDepth("ask", askLevels)
		}
	}()

	switch m := msg.(type) {
	case SimpleOrderMsg:
		records, err := e.book.Submit(m.Info)
		e.remember(records)
		if m.Reply != nil {
			m.Reply <- SubmitResult{Records: records, Err: err}
		}
	case CancelOrderMsg:
		rec, err := e.book.Cancel(m.Side, m.Price, m.ID, m.UID)
		if rec != nil {
			e.remember([]*order.TradeRecord{rec})
		}
		if m.Reply != nil {
			m.Reply <- CancelResult{Record: rec, Err: err}
		}
	case CancelAllOrderMsg:
		records := e.book.CancelAll()
		e.remember(records)
		if m.Reply != nil {
			m.Reply <- CancelAllResult{Records: records}
		}
	case SnapshotMsg:
		path, err := e.snapWriter.Write(e.book, time.Now(), m.CorrelationID.String())
		if m.Reply != nil {
			m.Reply <- SnapshotResult{Path: path, Err: err}
		}
	case ShutdownMsg:
		if m.Reply != nil {
			close(m.Reply)
		}
		return true
	}
	return false
}

func (e *Engine) remember(records []*order.TradeRecord) {
	if len(records) == 0 {
		return
	}
	if e.metrics != nil {
		e.metrics.AddTrades(len(records))
	}
	for _, rec := range records {
		e.recent.SetDefault(rec.TradeID, rec)
	}
}

// RecentTrade returns a trade record seen within the last recentTradeTTL,
// for introspection and tests. It is not a durable trade log.
func (e *Engine) RecentTrade(tradeID string) (*order.TradeRecord, bool) {
	v, ok := e.recent.Get(tradeID)
	if !ok {
		return nil, false
	}
	return v.(*order.TradeRecord), true
}

// Submit is a synchronous convenience wrapper around sending a
// SimpleOrderMsg and waiting for its reply.
func (e *Engine) Submit(ctx context.Context, info order.Info) ([]*order.TradeRecord, error) {
	reply := make(chan SubmitResult, 1)
	msg := SimpleOrderMsg{Info: info, Reply: reply}
	select {
	case e.in <- msg:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case res := <-reply:
		return res.Records, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Cancel is a synchronous convenience wrapper around CancelOrderMsg.
func (e *Engine) Cancel(ctx context.Context, side order.Side, price decimal.Decimal, id, uid uint64) (*order.TradeRecord, error) {
	reply := make(chan CancelResult, 1)
	msg := CancelOrderMsg{Side: side, Price: price, ID: id, UID: uid, Reply: reply}
	select {
	case e.in <- msg:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case res := <-reply:
		return res.Record, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// CancelAll is a synchronous convenience wrapper around CancelAllOrderMsg.
func (e *Engine) CancelAll(ctx context.Context) ([]*order.TradeRecord, error) {
	reply := make(chan CancelAllResult, 1)
	select {
	case e.in <- CancelAllOrderMsg{Reply: reply}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case res := <-reply:
		return res.Records, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Snapshot is a synchronous convenience wrapper around SnapshotMsg.
func (e *Engine) Snapshot(ctx context.Context) (string, error) {
	reply := make(chan SnapshotResult, 1)
	id := uuid.New()
	select {
	case e.in <- SnapshotMsg{CorrelationID: id, Reply: reply}:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	select {
	case res := <-reply:
		return res.Path, res.Err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Shutdown sends ShutdownMsg and waits for Run to acknowledge it by closing
// the reply channel; Run returns right after that acknowledgement.
func (e *Engine) Shutdown(ctx context.Context) error {
	reply := make(chan struct{})
	select {
	case e.in <- ShutdownMsg{Reply: reply}:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-reply:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
