package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the nsnsearch API configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Cache    CacheConfig    `yaml:"cache"`
	Search   SearchConfig   `yaml:"search"`
	History  HistoryConfig  `yaml:"history"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"` // debug, info, warn, error (default: determined by env)
	File       string `yaml:"file"`  // optional rotating file sink, tee'd with stdout
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds the reference database settings.
type DatabaseConfig struct {
	DSN                string `yaml:"dsn"`
	MaxOpenConns       int    `yaml:"max_open_conns"`
	MaxIdleConns       int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeSec int    `yaml:"conn_max_lifetime_sec"`
	ReadinessTimeout   int    `yaml:"readiness_timeout_sec"`
	ChunkSize          int    `yaml:"chunk_size"`
}

// CacheConfig holds the Redis fragment cache settings.
type CacheConfig struct {
	Enabled          bool     `yaml:"enabled"`
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	FragmentTTLSec   int      `yaml:"fragment_ttl_sec"`
	DiscoveryTTLSec  int      `yaml:"discovery_ttl_sec"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// SearchConfig tunes the resolution pipeline.
type SearchConfig struct {
	MinQueryLength        int    `yaml:"min_query_length"`
	DefaultPageSize       int    `yaml:"default_page_size"`
	MaxPageSize           int    `yaml:"max_page_size"`
	DiscoveryMultiplier   int    `yaml:"discovery_multiplier"`
	DiscoveryMax          int    `yaml:"discovery_max"`
	LookupTimeoutMs       int    `yaml:"lookup_timeout_ms"`
	DiscoveryTimeoutMs    int    `yaml:"discovery_timeout_ms"`
	NameSearch            string `yaml:"name_search"` // off, prefix, substring
	SkipOptionalFragments bool   `yaml:"skip_optional_fragments"`
}

// HistoryConfig holds the search history stream settings.
type HistoryConfig struct {
	Enabled          bool   `yaml:"enabled"`
	Stream           string `yaml:"stream"`
	MaxLen           int64  `yaml:"max_len"`
	Buffer           int    `yaml:"buffer"`
	Workers          int    `yaml:"workers"`
	PublishTimeoutMs int    `yaml:"publish_timeout_ms"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from the given YAML file.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}
	return Parse(data)
}

// Parse decodes YAML after substituting ${VAR} and ${VAR:-default}, then applies
// defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}

	if c.Database.MaxOpenConns <= 0 {
		c.Database.MaxOpenConns = 20
	}
	if c.Database.MaxIdleConns <= 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetimeSec <= 0 {
		c.Database.ConnMaxLifetimeSec = 300
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Database.ChunkSize <= 0 {
		c.Database.ChunkSize = 500
	}

	if c.Cache.FragmentTTLSec <= 0 {
		c.Cache.FragmentTTLSec = 900
	}
	if c.Cache.DiscoveryTTLSec == 0 {
		c.Cache.DiscoveryTTLSec = 60
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}

	if c.Search.MinQueryLength <= 0 {
		c.Search.MinQueryLength = 3
	}
	if c.Search.DefaultPageSize <= 0 {
		c.Search.DefaultPageSize = 50
	}
	if c.Search.MaxPageSize <= 0 {
		c.Search.MaxPageSize = 200
	}
	if c.Search.DiscoveryMultiplier <= 0 {
		c.Search.DiscoveryMultiplier = 4
	}
	if c.Search.DiscoveryMax <= 0 {
		c.Search.DiscoveryMax = 1000
	}
	if c.Search.LookupTimeoutMs <= 0 {
		c.Search.LookupTimeoutMs = 1500
	}
	if c.Search.DiscoveryTimeoutMs <= 0 {
		c.Search.DiscoveryTimeoutMs = 3000
	}
	if c.Search.NameSearch == "" {
		c.Search.NameSearch = "prefix"
	}

	if c.History.Stream == "" {
		c.History.Stream = "nsnsearch:history"
	}
	if c.History.MaxLen <= 0 {
		c.History.MaxLen = 100000
	}
	if c.History.Buffer <= 0 {
		c.History.Buffer = 1024
	}
	if c.History.Workers <= 0 {
		c.History.Workers = 2
	}
	if c.History.PublishTimeoutMs <= 0 {
		c.History.PublishTimeoutMs = 2000
	}

	if c.Logging.File != "" {
		if c.Logging.MaxSizeMB <= 0 {
			c.Logging.MaxSizeMB = 100
		}
		if c.Logging.MaxBackups <= 0 {
			c.Logging.MaxBackups = 5
		}
		if c.Logging.MaxAgeDays <= 0 {
			c.Logging.MaxAgeDays = 28
		}
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns must be <= max_open_conns, got %d > %d",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	if (c.Cache.Enabled || c.History.Enabled) && len(c.Cache.Addrs) == 0 {
		return fmt.Errorf("cache.addrs is required when cache or history is enabled")
	}
	if c.Search.MaxPageSize < c.Search.DefaultPageSize {
		return fmt.Errorf("search.max_page_size must be >= default_page_size, got %d < %d",
			c.Search.MaxPageSize, c.Search.DefaultPageSize)
	}
	if c.Search.DiscoveryMax < c.Search.MaxPageSize {
		return fmt.Errorf("search.discovery_max must be >= max_page_size, got %d < %d",
			c.Search.DiscoveryMax, c.Search.MaxPageSize)
	}
	switch c.Search.NameSearch {
	case "off", "prefix", "substring":
		// ok
	default:
		return fmt.Errorf(
			"search.name_search must be \"off\", \"prefix\" or \"substring\", got %q",
			c.Search.NameSearch,
		)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
		// ok
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}

// ConnMaxLifetime returns the pool connection lifetime.
func (d DatabaseConfig) ConnMaxLifetime() time.Duration {
	return time.Duration(d.ConnMaxLifetimeSec) * time.Second
}

// FragmentTTL returns how long fragment bundles stay cached.
func (c CacheConfig) FragmentTTL() time.Duration {
	return time.Duration(c.FragmentTTLSec) * time.Second
}

// DiscoveryTTL returns how long candidate lists stay memoized in process.
// A negative discovery_ttl_sec disables the memo.
func (c CacheConfig) DiscoveryTTL() time.Duration {
	if c.DiscoveryTTLSec < 0 {
		return 0
	}
	return time.Duration(c.DiscoveryTTLSec) * time.Second
}

// LookupTimeout bounds each per-table fragment lookup.
func (s SearchConfig) LookupTimeout() time.Duration {
	return time.Duration(s.LookupTimeoutMs) * time.Millisecond
}

// DiscoveryTimeout bounds each discovery probe.
func (s SearchConfig) DiscoveryTimeout() time.Duration {
	return time.Duration(s.DiscoveryTimeoutMs) * time.Millisecond
}

// PublishTimeout bounds one history stream write.
func (h HistoryConfig) PublishTimeout() time.Duration {
	return time.Duration(h.PublishTimeoutMs) * time.Millisecond
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
