package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every override variable, e.g.
// TRADEJOURNAL_STORE_DB_PATH.
const EnvPrefix = "TRADEJOURNAL"

// Config represents the complete service configuration
type Config struct {
	Server      ServerConfig      `json:"server" yaml:"server"`
	Auth        AuthConfig        `json:"auth" yaml:"auth"`
	Store       StoreConfig       `json:"store" yaml:"store"`
	Cache       CacheConfig       `json:"cache" yaml:"cache"`
	Instruments InstrumentsConfig `json:"instruments" yaml:"instruments"`
	Log         LogConfig         `json:"log" yaml:"log"`
}

// ServerConfig contains HTTP listener parameters
type ServerConfig struct {
	Address     string   `json:"address" yaml:"address" split_words:"true"`
	RateLimit   float64  `json:"rate_limit" yaml:"rate_limit" split_words:"true"` // requests/second per client, 0 disables
	RateBurst   int      `json:"rate_burst" yaml:"rate_burst" split_words:"true"`
	CORSOrigins []string `json:"cors_origins,omitempty" yaml:"cors_origins,omitempty" split_words:"true"`
}

// AuthConfig contains bearer token parameters
type AuthConfig struct {
	JWTSecret string `json:"jwt_secret,omitempty" yaml:"jwt_secret,omitempty" split_words:"true"`
	Issuer    string `json:"issuer" yaml:"issuer" split_words:"true"`
	TokenTTL  string `json:"token_ttl" yaml:"token_ttl" split_words:"true"` // e.g. "24h"
}

// TTL converts the token lifetime string to time.Duration
func (a AuthConfig) TTL() (time.Duration, error) {
	if a.TokenTTL == "" {
		return 24 * time.Hour, nil
	}
	return time.ParseDuration(a.TokenTTL)
}

// StoreConfig selects the trade record store
type StoreConfig struct {
	Type          string `json:"type" yaml:"type" split_words:"true"` // "sqlite" or "mongo"
	DBPath        string `json:"db_path,omitempty" yaml:"db_path,omitempty" split_words:"true"`
	MongoURI      string `json:"mongo_uri,omitempty" yaml:"mongo_uri,omitempty" split_words:"true"`
	MongoDatabase string `json:"mongo_database,omitempty" yaml:"mongo_database,omitempty" split_words:"true"`
}

// CacheConfig selects where calculator state is kept
type CacheConfig struct {
	Type          string `json:"type" yaml:"type" split_words:"true"` // "memory" or "redis"
	RedisAddr     string `json:"redis_addr,omitempty" yaml:"redis_addr,omitempty" split_words:"true"`
	RedisPassword string `json:"redis_password,omitempty" yaml:"redis_password,omitempty" split_words:"true"`
	RedisDB       int    `json:"redis_db" yaml:"redis_db" split_words:"true"`
}

// InstrumentsConfig controls who sees the extended instrument set
type InstrumentsConfig struct {
	PrivilegedEmail string `json:"privileged_email,omitempty" yaml:"privileged_email,omitempty" split_words:"true"`
}

type LogConfig struct {
	Level string `json:"level" yaml:"level" split_words:"true"`
	Env   string `json:"env" yaml:"env" split_words:"true"` // "production" or "development"
}

// Load builds the effective configuration: defaults, then the file at path
// (if any), then .env and TRADEJOURNAL_* environment overrides.
func Load(path string) (*Config, error) {
	// Load .env file if exists
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a file (JSON or YAML based on extension)
func LoadFromFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.readFile(path); err != nil {
		return nil, err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, c)
	if err != nil {
		err = json.Unmarshal(data, c)
		if err != nil {
			return fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}
	return nil
}

// ApplyEnv overrides fields from TRADEJOURNAL_* variables. Unset variables
// leave the current value alone.
func (c *Config) ApplyEnv() error {
	if err := envconfig.Process(EnvPrefix, c); err != nil {
		return fmt.Errorf("process env config: %w", err)
	}
	return nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

func isYAML(path string) bool {
	return strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Address == "" {
		return fmt.Errorf("server.address is required")
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("server.rate_limit must not be negative")
	}
	if c.Server.RateLimit > 0 && c.Server.RateBurst < 1 {
		return fmt.Errorf("server.rate_burst must be at least 1 when rate_limit is set")
	}
	if c.Auth.JWTSecret != "" && len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("auth.jwt_secret must be at least 16 characters")
	}
	if c.Auth.Issuer == "" {
		return fmt.Errorf("auth.issuer is required")
	}
	if ttl, err := c.Auth.TTL(); err != nil || ttl <= 0 {
		return fmt.Errorf("auth.token_ttl must be a positive duration like 24h")
	}
	switch c.Store.Type {
	case "sqlite":
		if c.Store.DBPath == "" {
			return fmt.Errorf("store db_path required for sqlite type")
		}
	case "mongo":
		if c.Store.MongoURI == "" || c.Store.MongoDatabase == "" {
			return fmt.Errorf("store mongo_uri and mongo_database required for mongo type")
		}
	default:
		return fmt.Errorf("store.type must be 'sqlite' or 'mongo'")
	}
	switch c.Cache.Type {
	case "memory":
	case "redis":
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("cache redis_addr required for redis type")
		}
	default:
		return fmt.Errorf("cache.type must be 'memory' or 'redis'")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Address:   ":8080",
			RateLimit: 10,
			RateBurst: 20,
		},
		Auth: AuthConfig{
			Issuer:   "tradejournal",
			TokenTTL: "24h",
		},
		Store: StoreConfig{
			Type:          "sqlite",
			DBPath:        "./tradejournal.db",
			MongoDatabase: "tradejournal",
		},
		Cache: CacheConfig{
			Type: "memory",
		},
		Log: LogConfig{
			Level: "info",
			Env:   "development",
		},
	}
}
