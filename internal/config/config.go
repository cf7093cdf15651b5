package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName   string `mapstructure:"app_name"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	TimeoutMs      int64             `mapstructure:"timeout_ms"`
	Timeout        time.Duration     `mapstructure:"-"`
	DefaultHeaders map[string]string `mapstructure:"-"`

	SinksFile string `mapstructure:"sinks_file"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`
}

// Load reads configuration from configs/.env and REQTRACE_* environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()
	v.SetEnvPrefix("reqtrace")

	v.SetDefault("app_name", "reqtrace")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("timeout_ms", 1000)
	v.SetDefault("default_headers", "")
	v.SetDefault("sinks_file", "")
	v.SetDefault("storage_type", "none")
	v.SetDefault("bbolt_path", "./data/traces.db")
	v.SetDefault("storage_ttl_seconds", int64((7*24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((time.Hour)/time.Second))

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	headers, err := ParseHeaderList(v.GetString("default_headers"))
	if err != nil {
		return nil, fmt.Errorf("invalid default_headers: %w", err)
	}
	cfg.DefaultHeaders = headers

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) normalize() error {
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	if cfg.LogFormat != "json" && cfg.LogFormat != "console" {
		return fmt.Errorf("invalid log_format %q (expected json or console)", cfg.LogFormat)
	}

	if cfg.TimeoutMs <= 0 {
		return fmt.Errorf("invalid timeout_ms (must be positive milliseconds)")
	}
	cfg.Timeout = time.Duration(cfg.TimeoutMs) * time.Millisecond

	cfg.StorageType = strings.ToLower(strings.TrimSpace(cfg.StorageType))
	switch cfg.StorageType {
	case "", "none", "disabled", "bbolt":
	default:
		return fmt.Errorf("invalid storage_type %q (expected none or bbolt)", cfg.StorageType)
	}

	if cfg.StorageTTLSeconds <= 0 {
		return fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.StorageTTL = time.Duration(cfg.StorageTTLSeconds) * time.Second
	cfg.StorageCleanupInterval = time.Duration(cfg.StorageCleanupSeconds) * time.Second
	return nil
}

// ParseHeaderList parses "K1:V1,K2:V2" into a header map. Whitespace around
// names and values is trimmed.
func ParseHeaderList(raw string) (map[string]string, error) {
	out := map[string]string{}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return out, nil
	}
	for _, item := range strings.Split(raw, ",") {
		if err := ParseHeaderInto(out, item); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ParseHeaderInto parses one "Name: value" pair into dst.
func ParseHeaderInto(dst map[string]string, item string) error {
	name, value, ok := strings.Cut(item, ":")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return fmt.Errorf("header %q must look like Name: value", strings.TrimSpace(item))
	}
	dst[name] = strings.TrimSpace(value)
	return nil
}
