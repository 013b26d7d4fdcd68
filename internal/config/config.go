// Package config loads HCL configuration for the equity engine and server.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/pokermath/equity"
)

// Config represents the complete configuration
type Config struct {
	Engine *EngineSettings `hcl:"engine,block"`
	Server *ServerSettings `hcl:"server,block"`
	Cache  *CacheSettings  `hcl:"cache,block"`
}

// EngineSettings tunes Monte Carlo runs and names the lookup table.
type EngineSettings struct {
	Trials               int     `hcl:"trials,optional"`
	ConvergenceThreshold float64 `hcl:"convergence_threshold,optional"`
	CheckInterval        int     `hcl:"check_interval,optional"`
	Workers              int     `hcl:"workers,optional"`
	Seed                 int64   `hcl:"seed,optional"`
	TablePath            string  `hcl:"table_path,optional"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address        string `hcl:"address,optional"`
	Port           int    `hcl:"port,optional"`
	LogLevel       string `hcl:"log_level,optional"`
	RequestTimeout string `hcl:"request_timeout,optional"`
	MaxTrials      int    `hcl:"max_trials,optional"`
}

// CacheSettings configures the Redis result cache. An empty address
// disables caching.
type CacheSettings struct {
	RedisAddr     string `hcl:"redis_addr,optional"`
	RedisPassword string `hcl:"redis_password,optional"`
	RedisDB       int    `hcl:"redis_db,optional"`
	TTL           string `hcl:"ttl,optional"`
}

// Default returns default configuration
func Default() *Config {
	def := equity.DefaultConfig()
	return &Config{
		Engine: &EngineSettings{
			Trials:               def.Trials,
			ConvergenceThreshold: def.ConvergenceThreshold,
			CheckInterval:        def.CheckInterval,
		},
		Server: &ServerSettings{
			Address:        "localhost",
			Port:           8080,
			LogLevel:       "info",
			RequestTimeout: "500ms",
			MaxTrials:      1_000_000,
		},
		Cache: &CacheSettings{
			TTL: "1h",
		},
	}
}

// Load reads configuration from an HCL file. A missing file yields defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.Engine == nil {
		c.Engine = def.Engine
	}
	if c.Server == nil {
		c.Server = def.Server
	}
	if c.Cache == nil {
		c.Cache = def.Cache
	}
	if c.Engine.Trials == 0 {
		c.Engine.Trials = def.Engine.Trials
	}
	if c.Engine.ConvergenceThreshold == 0 {
		c.Engine.ConvergenceThreshold = def.Engine.ConvergenceThreshold
	}
	if c.Engine.CheckInterval == 0 {
		c.Engine.CheckInterval = def.Engine.CheckInterval
	}
	if c.Server.Address == "" {
		c.Server.Address = def.Server.Address
	}
	if c.Server.Port == 0 {
		c.Server.Port = def.Server.Port
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = def.Server.LogLevel
	}
	if c.Server.RequestTimeout == "" {
		c.Server.RequestTimeout = def.Server.RequestTimeout
	}
	if c.Server.MaxTrials == 0 {
		c.Server.MaxTrials = def.Server.MaxTrials
	}
	if c.Cache.TTL == "" {
		c.Cache.TTL = def.Cache.TTL
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Engine.Trials < 1 {
		return fmt.Errorf("engine: trials must be positive, got %d", c.Engine.Trials)
	}
	if c.Engine.ConvergenceThreshold < 0 || c.Engine.ConvergenceThreshold >= 1 {
		return fmt.Errorf("engine: convergence_threshold must be in [0, 1), got %g", c.Engine.ConvergenceThreshold)
	}
	if c.Engine.CheckInterval < 1 {
		return fmt.Errorf("engine: check_interval must be positive, got %d", c.Engine.CheckInterval)
	}
	if c.Engine.Workers < 0 {
		return fmt.Errorf("engine: workers must not be negative, got %d", c.Engine.Workers)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	switch c.Server.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("server: invalid log_level %q", c.Server.LogLevel)
	}
	if _, err := c.RequestTimeout(); err != nil {
		return err
	}
	if c.Server.MaxTrials < 1 {
		return fmt.Errorf("server: max_trials must be positive, got %d", c.Server.MaxTrials)
	}
	if _, err := c.CacheTTL(); err != nil {
		return err
	}
	return nil
}

// EquityConfig returns the engine tuning.
func (c *Config) EquityConfig() equity.Config {
	return equity.Config{
		Trials:               c.Engine.Trials,
		ConvergenceThreshold: c.Engine.ConvergenceThreshold,
		CheckInterval:        c.Engine.CheckInterval,
		Workers:              c.Engine.Workers,
		Seed:                 c.Engine.Seed,
	}
}

// RequestTimeout parses the per-request deadline.
func (c *Config) RequestTimeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.Server.RequestTimeout)
	if err != nil {
		return 0, fmt.Errorf("server: invalid request_timeout: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("server: request_timeout must be positive, got %s", d)
	}
	return d, nil
}

// CacheTTL parses the cache entry lifetime.
func (c *Config) CacheTTL() (time.Duration, error) {
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil {
		return 0, fmt.Errorf("cache: invalid ttl: %w", err)
	}
	return d, nil
}

// GetServerAddress returns the full server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
