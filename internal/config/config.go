// Package config loads traphctl's configuration via Viper: a YAML file
// plus TRAPH_-prefixed environment overrides, in the idiom of the
// retrieval pack's crawler and CLI examples.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds everything traphctl needs to open and operate a Traph.
type Config struct {
	// Folder is the directory holding lru_trie.dat/link_store.dat. Empty
	// means memory-backed.
	Folder string `mapstructure:"folder"`
	// Overwrite truncates both files at open.
	Overwrite bool `mapstructure:"overwrite"`
	// DefaultRule is the default webentity-creation rule pattern.
	DefaultRule string `mapstructure:"default_rule"`
	// Rules maps an LRU prefix to its creation-rule pattern.
	Rules map[string]string `mapstructure:"rules"`
	// MetricsAddr is a metrics listen address read from the file or
	// environment. serve-metrics does not read it; it listens on --addr.
	MetricsAddr string `mapstructure:"metrics_addr"`
	// LogLevel is a zerolog level name ("debug", "info", "warn", "error").
	LogLevel string `mapstructure:"log_level"`
}

// Load reads configuration from path (if non-empty) and TRAPH_-prefixed
// environment variables, environment taking precedence.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("traph")
	v.AutomaticEnv()

	v.SetDefault("log_level", "info")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshalling: %w", err)
	}

	return cfg, nil
}
