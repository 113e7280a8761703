// Package config loads engine construction parameters with
// github.com/spf13/viper: a config file, environment variables prefixed
// MATCHBOOK_, and hard-coded defaults. There is no CLI flag parsing layer
// or process-supervision glue here; that is out of this engine's scope.
package config

import (
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config is the full set of parameters needed to construct an engine and
// its order book.
type Config struct {
	Market      string `mapstructure:"market"`
	MaxOrderNum uint32 `mapstructure:"max_order_num"`
	SnapshotDir string `mapstructure:"snapshot_dir"`

	Monitoring struct {
		LogLevel string `mapstructure:"log_level"`
	} `mapstructure:"monitoring"`
}

// Load reads configuration from configPath if non-empty (falling back to
// ./config.yaml, ./config/config.yaml, /etc/matchbook/config.yaml), then
// layers MATCHBOOK_-prefixed environment variables on top, then the
// defaults below for anything still unset.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.AddConfigPath(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/matchbook")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("MATCHBOOK")

	v.SetDefault("market", "BTC-USDT")
	v.SetDefault("max_order_num", 65536)
	v.SetDefault("snapshot_dir", "batch")
	v.SetDefault("monitoring.log_level", "info")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if cfg.Market == "" {
		return nil, fmt.Errorf("config: market must not be empty")
	}
	if cfg.MaxOrderNum == 0 {
		return nil, fmt.Errorf("config: max_order_num must be positive")
	}
	return cfg, nil
}

// InitLogger builds the process logger per cfg.Monitoring.LogLevel,
// following the teacher's convention of deriving zap's mode from a single
// config string rather than wiring a bespoke logging config struct.
func InitLogger(cfg *Config) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error

	switch cfg.Monitoring.LogLevel {
	case "debug":
		logger, err = zap.NewDevelopment()
	default:
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, fmt.Errorf("config: initializing logger: %w", err)
	}
	return logger, nil
}
