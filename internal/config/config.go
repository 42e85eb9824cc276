package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from flags, environment variables and .env files.
type Config struct {
	AppName                string `mapstructure:"app_name"`
	Env                    string `mapstructure:"app_env"`
	LogLevel               string `mapstructure:"log_level"`
	BaseURL                string `mapstructure:"base_url"`
	HTTPTimeoutSeconds     int64  `mapstructure:"http_timeout_seconds"`
	RefreshIntervalSeconds int64  `mapstructure:"refresh_interval"`
	OutputFormat           string `mapstructure:"output_format"`
	PublishersFile         string `mapstructure:"publishers_file"`

	StorageType        string `mapstructure:"storage_type"`
	StoragePath        string `mapstructure:"storage_path"`
	SnapshotTTLSeconds int64  `mapstructure:"snapshot_ttl_seconds"`

	HTTPTimeout     time.Duration `mapstructure:"-"`
	RefreshInterval time.Duration `mapstructure:"-"`
	SnapshotTTL     time.Duration `mapstructure:"-"`
}

const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// DefaultBaseURL is the host serving the hiring list.
const DefaultBaseURL = "https://fetch-hiring.s3.amazonaws.com/"

// Load reads configuration from environment variables, configs/.env and the given flags.
// Flags may be nil; a flag only overrides other sources when it was set explicitly.
func Load(flags *pflag.FlagSet) (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "items-fetcher")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("base_url", DefaultBaseURL)
	v.SetDefault("http_timeout_seconds", 15)
	v.SetDefault("refresh_interval", 0) // seconds, 0 fetches once
	v.SetDefault("output_format", FormatYAML)
	v.SetDefault("publishers_file", "")
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("storage_path", "./data/items.db")
	v.SetDefault("snapshot_ttl_seconds", int64((24*time.Hour)/time.Second))

	v.AutomaticEnv()

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("invalid base_url (must not be empty)")
	}
	if cfg.HTTPTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid http_timeout_seconds (must be positive seconds)")
	}
	if cfg.RefreshIntervalSeconds < 0 {
		return nil, fmt.Errorf("invalid refresh_interval (must be zero or positive seconds)")
	}
	if cfg.SnapshotTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid snapshot_ttl_seconds (must be positive seconds)")
	}

	cfg.OutputFormat = strings.ToLower(strings.TrimSpace(cfg.OutputFormat))
	switch cfg.OutputFormat {
	case FormatYAML, FormatJSON:
	default:
		return nil, fmt.Errorf("invalid output_format %q (expected yaml or json)", cfg.OutputFormat)
	}

	cfg.HTTPTimeout = time.Duration(cfg.HTTPTimeoutSeconds) * time.Second
	cfg.RefreshInterval = time.Duration(cfg.RefreshIntervalSeconds) * time.Second
	cfg.SnapshotTTL = time.Duration(cfg.SnapshotTTLSeconds) * time.Second

	return &cfg, nil
}

// flagKeys maps command line flags to config keys.
var flagKeys = map[string]string{
	"base-url":        "base_url",
	"log-level":       "log_level",
	"format":          "output_format",
	"refresh":         "refresh_interval",
	"timeout":         "http_timeout_seconds",
	"publishers-file": "publishers_file",
	"storage":         "storage_type",
	"storage-path":    "storage_path",
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// RegisterFlags declares the flags Load understands on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("base-url", DefaultBaseURL, "base URL serving hiring.json")
	fs.String("log-level", "info", "log level (debug, info, warn, error)")
	fs.String("format", FormatYAML, "output format (yaml or json)")
	fs.Int64("refresh", 0, "refresh interval in seconds, 0 fetches once")
	fs.Int64("timeout", 15, "http timeout in seconds")
	fs.String("publishers-file", "", "optional YAML/JSON file declaring item sinks")
	fs.String("storage", "bbolt", "snapshot storage (none, bbolt, sqlite)")
	fs.String("storage-path", "./data/items.db", "snapshot storage file")
}
