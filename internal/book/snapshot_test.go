package book

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradingcore/matchbook/internal/order"
)

func TestSnapshotRoundTrip_PreservesRestingOrdersAndLeaders(t *testing.T) {
	b := newTestBook(t)
	_, err := b.Submit(limitInfo(1, 1, order.SideBid, "100", "5"))
	require.NoError(t, err)
	_, err = b.Submit(limitInfo(2, 2, order.SideBid, "99", "3"))
	require.NoError(t, err)
	_, err = b.Submit(limitInfo(3, 3, order.SideAsk, "101", "2"))
	require.NoError(t, err)

	dir := t.TempDir()
	w := NewSnapshotWriter(dir, nil)
	path, err := w.Write(b, time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC), "corr-1")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "2026-07-31_BTC-USDT.d"), path)

	restored, err := Restore(path, nil)
	require.NoError(t, err)

	bestBid, ok := restored.BestBid()
	require.True(t, ok)
	assert.True(t, dec("100").Equal(bestBid))

	bestAsk, ok := restored.BestAsk()
	require.True(t, ok)
	assert.True(t, dec("101").Equal(bestAsk))

	bidLevels, askLevels := restored.Depth()
	assert.Equal(t, 2, bidLevels)
	assert.Equal(t, 1, askLevels)

	// The restored book continues matching exactly as the original would.
	recs, err := restored.Submit(limitInfo(4, 4, order.SideAsk, "99", "4"))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, uint64(1), recs[0].BidOrderID)
}

func TestSnapshotRestore_MissingFileReturnsSnapshotIOError(t *testing.T) {
	_, err := Restore(filepath.Join(t.TempDir(), "nope.d"), nil)
	assert.ErrorIs(t, err, ErrSnapshotIO)
}
