package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	History HistoryConfig `mapstructure:"history"`
	UI      UIConfig      `mapstructure:"ui"`
	Log     LogConfig     `mapstructure:"log"`
}

// APIConfig holds the exchange-rate endpoint settings.
type APIConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	CurrenciesPath string `mapstructure:"currencies_path"`
	RatesPath      string `mapstructure:"rates_path"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// HistoryConfig holds the conversion ledger settings.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Precision int `mapstructure:"precision"`
}

// LogConfig holds log file settings. The TUI owns stdout, so logs go to a file.
type LogConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

// Load reads configuration from file and env. Env var overrides use prefix CAMBIO_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("api.base_url", "https://api.frankfurter.app")
	v.SetDefault("api.currencies_path", "/currencies")
	v.SetDefault("api.rates_path", "/latest")
	v.SetDefault("api.timeout_seconds", 10)
	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "cambio", "cambio.db"))
	v.SetDefault("ui.precision", 2)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.path", filepath.Join(os.Getenv("HOME"), ".local", "state", "cambio", "cambio.log"))

	v.SetConfigType("toml")

	cfgPath := os.Getenv("CAMBIO_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "cambio"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("CAMBIO")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}
