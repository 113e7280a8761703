package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gaugeValue(t *testing.T, vec *prometheus.GaugeVec, side string) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, vec.WithLabelValues(side).Write(m))
	return m.GetGauge().GetValue()
}

func TestRecorder_SetDepthUpdatesGaugeBySide(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg, "BTC-USDT")

	r.SetDepth("bid", 3)
	r.SetDepth("ask", 1)

	assert.Equal(t, float64(3), gaugeValue(t, r.bookDepth, "bid"))
	assert.Equal(t, float64(1), gaugeValue(t, r.bookDepth, "ask"))
}

func TestRecorder_AddTradesIgnoresNonPositive(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg, "BTC-USDT")

	r.AddTrades(0)
	r.AddTrades(-5)
	r.AddTrades(2)

	m := &dto.Metric{}
	require.NoError(t, r.tradesProcessed.Write(m))
	assert.Equal(t, float64(2), m.GetCounter().GetValue())
}

func TestRecorder_ObserveMatchDoesNotPanic(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg, "BTC-USDT")
	assert.NotPanics(t, func() { r.ObserveMatch(250 * time.Microsecond) })
}
