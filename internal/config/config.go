// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/talentalign/internal/kvstore"
	"github.com/jonathan/talentalign/internal/objectstore"
)

// Defaults applied by MergeWithDefaults.
const (
	DefaultAPIURL         = "http://127.0.0.1:8000"
	DefaultTimeout        = 20 * time.Second
	DefaultStoreTimeout   = 3 * time.Second
	DefaultHealthInterval = 15 * time.Second
	DefaultProfile        = "default"
	DefaultListen         = "127.0.0.1:8787"
	DefaultLogLevel       = "warn"
	DefaultLogFormat      = "text"
)

// Config represents the CLI configuration that can be loaded from a JSON or YAML file.
// All fields are optional; missing values use defaults, environment or CLI flags.
type Config struct {
	APIURL         string   `json:"api_url,omitempty" yaml:"api_url,omitempty"`
	Timeout        Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	Profile        string   `json:"profile,omitempty" yaml:"profile,omitempty"`
	HealthInterval Duration `json:"health_interval,omitempty" yaml:"health_interval,omitempty"`
	Listen         string   `json:"listen,omitempty" yaml:"listen,omitempty"`
	UseBrowser     bool     `json:"use_browser,omitempty" yaml:"use_browser,omitempty"`

	Store  StoreConfig  `json:"store,omitempty" yaml:"store,omitempty"`
	Export ExportConfig `json:"export,omitempty" yaml:"export,omitempty"`

	LogLevel  string `json:"log_level,omitempty" yaml:"log_level,omitempty"`
	LogFormat string `json:"log_format,omitempty" yaml:"log_format,omitempty"`
}

// StoreConfig selects where the token, history and result slot are kept.
type StoreConfig struct {
	Backend       string   `json:"backend,omitempty" yaml:"backend,omitempty"`
	Path          string   `json:"path,omitempty" yaml:"path,omitempty"`
	RedisAddr     string   `json:"redis_addr,omitempty" yaml:"redis_addr,omitempty"`
	RedisPassword string   `json:"redis_password,omitempty" yaml:"redis_password,omitempty"`
	DatabaseURL   string   `json:"database_url,omitempty" yaml:"database_url,omitempty"`
	Timeout       Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// ExportConfig selects where exported reports are written. A bucket selects S3.
type ExportConfig struct {
	Dir      string `json:"dir,omitempty" yaml:"dir,omitempty"`
	S3Bucket string `json:"s3_bucket,omitempty" yaml:"s3_bucket,omitempty"`
	S3Region string `json:"s3_region,omitempty" yaml:"s3_region,omitempty"`
	S3Prefix string `json:"s3_prefix,omitempty" yaml:"s3_prefix,omitempty"`
	KMSKeyID string `json:"kms_key_id,omitempty" yaml:"kms_key_id,omitempty"`
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// Load reads the optional config file, applies environment overrides, fills defaults and
// validates the result.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	merged := cfg.MergeWithDefaults(Defaults())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		APIURL:         DefaultAPIURL,
		Timeout:        Duration(DefaultTimeout),
		Profile:        DefaultProfile,
		HealthInterval: Duration(DefaultHealthInterval),
		Listen:         DefaultListen,
		Store: StoreConfig{
			Backend: kvstore.BackendFile,
			Timeout: Duration(DefaultStoreTimeout),
		},
		Export: ExportConfig{
			Dir: ".",
		},
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
	}
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("config error: 'timeout' must be positive")
	}
	if c.HealthInterval < 0 {
		return fmt.Errorf("config error: 'health_interval' must be positive")
	}
	if c.APIURL != "" && !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		return fmt.Errorf("config error: 'api_url' must start with http:// or https://")
	}

	switch c.Store.Backend {
	case "", kvstore.BackendFile, kvstore.BackendMemory:
	case kvstore.BackendRedis:
		if c.Store.RedisAddr == "" {
			return fmt.Errorf("config error: 'store.redis_addr' is required for the redis backend")
		}
	case kvstore.BackendPostgres:
		if c.Store.DatabaseURL == "" {
			return fmt.Errorf("config error: 'store.database_url' is required for the postgres backend")
		}
	default:
		return fmt.Errorf("config error: unknown store backend %q", c.Store.Backend)
	}

	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("config error: 'log_format' must be text or json")
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	result.APIURL = firstString(result.APIURL, defaults.APIURL)
	result.Profile = firstString(result.Profile, defaults.Profile)
	result.Listen = firstString(result.Listen, defaults.Listen)
	result.LogLevel = firstString(result.LogLevel, defaults.LogLevel)
	result.LogFormat = firstString(result.LogFormat, defaults.LogFormat)
	if result.Timeout == 0 {
		result.Timeout = defaults.Timeout
	}
	if result.HealthInterval == 0 {
		result.HealthInterval = defaults.HealthInterval
	}

	result.Store.Backend = firstString(result.Store.Backend, defaults.Store.Backend)
	result.Store.Path = firstString(result.Store.Path, defaults.Store.Path)
	result.Store.RedisAddr = firstString(result.Store.RedisAddr, defaults.Store.RedisAddr)
	result.Store.DatabaseURL = firstString(result.Store.DatabaseURL, defaults.Store.DatabaseURL)
	if result.Store.Timeout == 0 {
		result.Store.Timeout = defaults.Store.Timeout
	}

	result.Export.Dir = firstString(result.Export.Dir, defaults.Export.Dir)
	result.Export.S3Region = firstString(result.Export.S3Region, defaults.Export.S3Region)

	return result
}

// StoreOptions converts the store section for kvstore.Open. An empty file path resolves to
// a per-profile file under the user's home directory.
func (c *Config) StoreOptions() kvstore.Options {
	path := c.Store.Path
	if path == "" && (c.Store.Backend == "" || c.Store.Backend == kvstore.BackendFile) {
		path = DefaultStorePath(c.Profile)
	}
	return kvstore.Options{
		Backend:       c.Store.Backend,
		Profile:       c.Profile,
		Path:          path,
		RedisAddr:     c.Store.RedisAddr,
		RedisPassword: c.Store.RedisPassword,
		DatabaseURL:   c.Store.DatabaseURL,
		Timeout:       c.Store.Timeout.Std(),
	}
}

// ExportOptions converts the export section for objectstore.Open.
func (c *Config) ExportOptions() objectstore.Options {
	return objectstore.Options{
		Dir:      c.Export.Dir,
		Bucket:   c.Export.S3Bucket,
		Region:   c.Export.S3Region,
		Prefix:   c.Export.S3Prefix,
		KMSKeyID: c.Export.KMSKeyID,
	}
}

// DefaultStorePath returns ~/.talentalign/store.json, or store-<profile>.json for other profiles.
func DefaultStorePath(profile string) string {
	name := "store.json"
	if profile != "" && profile != DefaultProfile {
		name = fmt.Sprintf("store-%s.json", profile)
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".talentalign", name)
	}
	return filepath.Join(home, ".talentalign", name)
}

func firstString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
