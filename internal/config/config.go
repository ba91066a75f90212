// Package config loads scanner settings from a YAML file with
// environment-variable overrides. Configuration is explicit: Load
// returns a value, nothing global.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type ChainConfig struct {
	Name      string   `yaml:"name"`
	ChainID   int      `yaml:"chain_id"`
	RPCURLs   []string `yaml:"rpc_urls"`
	TableName string   `yaml:"table_name"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

type CacheConfig struct {
	MaxEntries int           `yaml:"max_entries"`
	TTL        time.Duration `yaml:"ttl"`
}

type ScanConfig struct {
	Workers     int           `yaml:"workers"`
	CallTimeout time.Duration `yaml:"call_timeout"`
	OutputDir   string        `yaml:"output_dir"`
	LogDir      string        `yaml:"log_dir"`
	MetricsAddr string        `yaml:"metrics_addr"`
}

type AppConfig struct {
	Chains   map[string]ChainConfig `yaml:"chains"`
	Database DatabaseConfig         `yaml:"database"`
	Cache    CacheConfig            `yaml:"cache"`
	Scan     ScanConfig             `yaml:"scan"`
}

// Load reads the configuration file at path, or searches the standard
// locations when path is empty. A missing file yields the defaults, so
// the scanner runs without any configuration at all.
func Load(path string) (*AppConfig, error) {
	if path == "" {
		path = findConfigFile()
	}

	cfg := &AppConfig{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func findConfigFile() string {
	possiblePaths := []string{
		"config/settings.yaml",
		"settings.yaml",
		"../config/settings.yaml",
	}
	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func (c *AppConfig) applyEnv() {
	c.Database.Host = getEnv("SCAMSCAN_DB_HOST", c.Database.Host)
	c.Database.Port = getEnv("SCAMSCAN_DB_PORT", c.Database.Port)
	c.Database.User = getEnv("SCAMSCAN_DB_USER", c.Database.User)
	c.Database.Password = getEnv("SCAMSCAN_DB_PASSWORD", c.Database.Password)
	c.Database.Name = getEnv("SCAMSCAN_DB_NAME", c.Database.Name)
	c.Scan.OutputDir = getEnv("SCAMSCAN_OUTPUT_DIR", c.Scan.OutputDir)
	c.Scan.LogDir = getEnv("SCAMSCAN_LOG_DIR", c.Scan.LogDir)
	c.Scan.MetricsAddr = getEnv("SCAMSCAN_METRICS_ADDR", c.Scan.MetricsAddr)
	c.Scan.Workers = getEnvAsInt("SCAMSCAN_WORKERS", c.Scan.Workers)
	c.Cache.MaxEntries = getEnvAsInt("SCAMSCAN_CACHE_ENTRIES", c.Cache.MaxEntries)

	if rpc := os.Getenv("SCAMSCAN_RPC_URL"); rpc != "" {
		if c.Chains == nil {
			c.Chains = make(map[string]ChainConfig)
		}
		chain := c.Chains["default"]
		chain.RPCURLs = append([]string{rpc}, chain.RPCURLs...)
		c.Chains["default"] = chain
	}
}

func (c *AppConfig) applyDefaults() {
	if c.Cache.MaxEntries <= 0 {
		c.Cache.MaxEntries = 1000
	}
	if c.Cache.TTL <= 0 {
		c.Cache.TTL = 10 * time.Minute
	}
	if c.Scan.Workers <= 0 {
		c.Scan.Workers = 4
	}
	if c.Scan.CallTimeout <= 0 {
		c.Scan.CallTimeout = 15 * time.Second
	}
	if c.Scan.OutputDir == "" {
		c.Scan.OutputDir = "reports"
	}
	if c.Scan.LogDir == "" {
		c.Scan.LogDir = "logs"
	}
}

// Chain resolves a configured chain by name; "default" falls back to
// the sole configured chain when only one exists.
func (c *AppConfig) Chain(name string) (*ChainConfig, error) {
	if chain, ok := c.Chains[name]; ok {
		return &chain, nil
	}
	if name == "default" && len(c.Chains) == 1 {
		for _, chain := range c.Chains {
			return &chain, nil
		}
	}
	return nil, fmt.Errorf("unsupported chain: %s", name)
}

// DSN builds the MySQL connection string for the contract database.
func (c *AppConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
