package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsApplyWithoutAConfigFile(t *testing.T) {
	cfg, err := Load(t.TempDir()) // empty dir: no config.yaml present
	require.NoError(t, err)
	assert.Equal(t, "BTC-USDT", cfg.Market)
	assert.Equal(t, uint32(65536), cfg.MaxOrderNum)
	assert.Equal(t, "batch", cfg.SnapshotDir)
}

func TestLoad_EnvironmentOverridesDefault(t *testing.T) {
	t.Setenv("MATCHBOOK_MARKET", "ETH-USDT")
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "ETH-USDT", cfg.Market)
}

func TestLoad_ConfigFileOverridesDefault(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(dir+"/config.yaml", []byte("market: SOL-USDT\nmax_order_num: 1024\n"), 0o644)
	require.NoError(t, err)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "SOL-USDT", cfg.Market)
	assert.Equal(t, uint32(1024), cfg.MaxOrderNum)
}

func TestInitLogger_DefaultsToProduction(t *testing.T) {
	cfg := &Config{}
	logger, err := InitLogger(cfg)
	require.NoError(t, err)
	assert.NotNil(t, logger)
}
