// Command matchbook runs a single-market order book and matching engine.
// It is intentionally thin: reading configuration, wiring the book,
// engine, metrics and snapshot writer together, and exposing a metrics
// endpoint. Network ingress, auth, and process supervision live outside
// this engine's scope and are not built here.
package main

import (
	"context"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/tradingcore/matchbook/internal/book"
	"github.com/tradingcore/matchbook/internal/config"
	"github.com/tradingcore/matchbook/internal/engine"
	"github.com/tradingcore/matchbook/internal/metrics"
)

const shutdownTimeout = 5 * time.Second

func main() {
	configPath := flag.String("config", "", "directory containing config.yaml")
	metricsAddr := flag.String("metrics-addr", ":9090", "address to serve /metrics on")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}

	logger, err := config.InitLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ob := book.New(book.Config{Market: cfg.Market, MaxOrderNum: cfg.MaxOrderNum}, logger)
	snapWriter := book.NewSnapshotWriter(cfg.SnapshotDir, logger)
	registry := prometheus.NewRegistry()
	rec := metrics.NewRecorder(registry, cfg.Market)

	eng := engine.New(ob, snapWriter, rec, logger, 1024)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	metricsServer := &http.Server{Addr: *metricsAddr, Handler: mux}
	go func() {
		logger.Info("metrics server listening", zap.String("addr", *metricsAddr))
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server stopped", zap.Error(err))
		}
	}()

	runErr := make(chan error, 1)
	go func() { runErr <- eng.Run(ctx) }()

	logger.Info("matcher running", zap.String("market", cfg.Market), zap.Uint32("max_order_num", cfg.MaxOrderNum))

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := eng.Shutdown(shutdownCtx); err != nil {
		logger.Error("engine shutdown did not complete cleanly", zap.Error(err))
	}
	_ = metricsServer.Close()

	if err := <-runErr; err != nil && err != context.Canceled {
		logger.Error("matcher loop exited with error", zap.Error(err))
	}
}
