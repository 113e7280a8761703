package book

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	kgzip "github.com/klauspost/compress/gzip"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/tradingcore/matchbook/internal/order"
)

// snapshotDoc is the on-disk representation written to
// batch/YYYY-MM-DD_<market>.d. It carries enough to fully rebuild an
// OrderBook: every occupied arena slot plus both sides' price nodes and
// leader caches.
type snapshotDoc struct {
	Market      string            `json:"market"`
	MaxOrderNum uint32            `json:"max_order_num"`
	Orders      []order.Order     `json:"orders"`
	BidNodes    []order.PriceNode `json:"bid_nodes"`
	AskNodes    []order.PriceNode `json:"ask_nodes"`
	BidLeader   order.PriceNode   `json:"bid_leader"`
	AskLeader   order.PriceNode   `json:"ask_leader"`
}

// SnapshotWriter persists OrderBook snapshots to disk, gzip-compressed,
// behind a circuit breaker so a failing disk fails fast instead of
// blocking the single matcher goroutine that calls it.
type SnapshotWriter struct {
	dir     string
	breaker *gobreaker.CircuitBreaker
	log     *zap.Logger
}

// NewSnapshotWriter creates a writer rooted at dir (conventionally
// "batch"). The breaker trips after 3 consecutive write failures and
// half-opens after 30s.
func NewSnapshotWriter(dir string, log *zap.Logger) *SnapshotWriter {
	if log == nil {
		log = zap.NewNop()
	}
	settings := gobreaker.Settings{
		Name:    "book-snapshot",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	}
	return &SnapshotWriter{dir: dir, breaker: gobreaker.NewCircuitBreaker(settings), log: log}
}

// Write serializes b as of now, writes it to
// <dir>/YYYY-MM-DD_<market>.d, fsyncs it, and returns the path written.
// correlationID is logged alongside the write for tracing a snapshot
// request back to the control message that triggered it.
func (w *SnapshotWriter) Write(b *OrderBook, now time.Time, correlationID string) (string, error) {
	doc := b.exportDoc()
	payload, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("%w: encode: %v", ErrSnapshotIO, err)
	}

	filename := fmt.Sprintf("%s_%s.d", now.Format("2006-01-02"), b.market)
	path := filepath.Join(w.dir, filename)

	_, err = w.breaker.Execute(func() (interface{}, error) {
		return nil, writeCompressed(path, payload)
	})
	if err != nil {
		w.log.Error("snapshot write failed",
			zap.String("correlation_id", correlationID),
			zap.String("path", path),
			zap.Error(err),
		)
		return "", fmt.Errorf("%w: %v", ErrSnapshotIO, err)
	}

	w.log.Info("snapshot written",
		zap.String("correlation_id", correlationID),
		zap.String("path", path),
		zap.Int("orders", len(doc.Orders)),
	)
	return path, nil
}

func writeCompressed(path string, payload []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	gz := kgzip.NewWriter(f)
	if _, err := gz.Write(payload); err != nil {
		return err
	}
	if err := gz.Close(); err != nil {
		return err
	}
	return f.Sync()
}

// Restore reads and decompresses path, then rebuilds a full OrderBook from
// the decoded document: arena contents, bitmap occupancy, both btree price
// indexes, and both leader caches.
func Restore(path string, log *zap.Logger) (*OrderBook, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotIO, err)
	}

	gz, err := kgzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotIO, err)
	}
	defer gz.Close()

	payload, err := io.ReadAll(gz)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotIO, err)
	}

	var doc snapshotDoc
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrSnapshotIO, err)
	}
	return rebuildFromDoc(doc, log), nil
}

func (b *OrderBook) exportDoc() snapshotDoc {
	capacity := b.arena.Capacity()
	orders := make([]order.Order, capacity+1)
	for slot := uint32(1); slot <= capacity; slot++ {
		if o := b.arena.Get(slot); o.Used {
			orders[slot] = *o
		}
	}

	var bidNodes, askNodes []order.PriceNode
	b.bidIndex.Descend(func(n order.PriceNode) bool {
		bidNodes = append(bidNodes, n)
		return true
	})
	b.askIndex.Ascend(func(n order.PriceNode) bool {
		askNodes = append(askNodes, n)
		return true
	})

	return snapshotDoc{
		Market:      b.market,
		MaxOrderNum: capacity,
		Orders:      orders,
		BidNodes:    bidNodes,
		AskNodes:    askNodes,
		BidLeader:   b.bidLeader,
		AskLeader:   b.askLeader,
	}
}

func rebuildFromDoc(doc snapshotDoc, log *zap.Logger) *OrderBook {
	b := New(Config{Market: doc.Market, MaxOrderNum: doc.MaxOrderNum}, log)

	for slot := uint32(1); slot < uint32(len(doc.Orders)); slot++ {
		o := doc.Orders[slot]
		if !o.Used {
			continue
		}
		b.arena.Put(slot, o)
		b.freelist.MarkOccupied(slot)
	}
	for _, n := range doc.BidNodes {
		b.bidIndex.Upsert(n)
	}
	for _, n := range doc.AskNodes {
		b.askIndex.Upsert(n)
	}
	b.refreshLeader(order.SideBid)
	b.refreshLeader(order.SideAsk)
	return b
}
