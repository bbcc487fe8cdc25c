// Package config loads the VishMaker server configuration.
//
// Configuration comes from a TOML file with environment overrides
// (VISHMAKER_* variables), so deployments can ship a base file and inject
// secrets through the environment.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/gauravm26/vishmaker/pkg/canvas"
	"github.com/gauravm26/vishmaker/pkg/errors"
)

// Backend names accepted in the store and cache sections.
const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"

	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Config is the full server configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Store  StoreConfig  `toml:"store"`
	Cache  CacheConfig  `toml:"cache"`
	Layout LayoutConfig `toml:"layout"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr string `toml:"addr"`

	// ShutdownSeconds is the graceful-shutdown timeout in seconds.
	ShutdownSeconds int `toml:"shutdown_seconds"`
}

// ShutdownTimeout returns the graceful-shutdown timeout as a duration.
func (s ServerConfig) ShutdownTimeout() time.Duration {
	if s.ShutdownSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(s.ShutdownSeconds) * time.Second
}

// StoreConfig selects and configures the project store.
type StoreConfig struct {
	Backend string      `toml:"backend"` // "memory" or "mongo"
	Mongo   MongoConfig `toml:"mongo"`
}

// MongoConfig configures the MongoDB backend.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// CacheConfig selects and configures the pipeline cache.
type CacheConfig struct {
	Backend string      `toml:"backend"` // "none", "file", or "redis"
	Dir     string      `toml:"dir"`     // File backend root
	Redis   RedisConfig `toml:"redis"`
}

// RedisConfig configures the Redis backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// LayoutConfig overrides the canvas geometry. Zero fields keep the default.
type LayoutConfig struct {
	HeaderHeight float64 `toml:"header_height"`
	RowHeight    float64 `toml:"row_height"`
	ColumnPitch  float64 `toml:"column_pitch"`
	NodeGap      float64 `toml:"node_gap"`
	GroupGap     float64 `toml:"group_gap"`
	MarginX      float64 `toml:"margin_x"`
	MarginY      float64 `toml:"margin_y"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownSeconds: 10,
		},
		Store: StoreConfig{Backend: StoreMemory},
		Cache: CacheConfig{Backend: CacheNone},
	}
}

// Load reads the configuration file at path (optional), applies environment
// overrides, and validates the result. An empty path loads defaults plus
// environment only.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config file %s", path)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks backend names and required backend settings.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case StoreMemory:
	case StoreMongo:
		if c.Store.Mongo.URI == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "store.mongo.uri is required for the mongo backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown store backend: %q", c.Store.Backend)
	}

	switch c.Cache.Backend {
	case CacheNone:
	case CacheFile:
		if c.Cache.Dir == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.dir is required for the file backend")
		}
	case CacheRedis:
		if c.Cache.Redis.Addr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis.addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend: %q", c.Cache.Backend)
	}

	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "server.addr is required")
	}
	return nil
}

// Geometry converts layout overrides into canvas geometry, keeping defaults
// for zero fields.
func (c *Config) Geometry() canvas.Geometry {
	g := canvas.DefaultGeometry()
	if v := c.Layout.HeaderHeight; v > 0 {
		g.HeaderHeight = v
	}
	if v := c.Layout.RowHeight; v > 0 {
		g.RowHeight = v
	}
	if v := c.Layout.ColumnPitch; v > 0 {
		g.ColumnPitch = v
	}
	if v := c.Layout.NodeGap; v > 0 {
		g.NodeGap = v
	}
	if v := c.Layout.GroupGap; v > 0 {
		g.GroupGap = v
	}
	if v := c.Layout.MarginX; v > 0 {
		g.MarginX = v
	}
	if v := c.Layout.MarginY; v > 0 {
		g.MarginY = v
	}
	return g
}

// applyEnv overlays VISHMAKER_* environment variables.
func applyEnv(cfg *Config) {
	setStr := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	setStr("VISHMAKER_ADDR", &cfg.Server.Addr)
	setStr("VISHMAKER_STORE_BACKEND", &cfg.Store.Backend)
	setStr("VISHMAKER_MONGO_URI", &cfg.Store.Mongo.URI)
	setStr("VISHMAKER_MONGO_DATABASE", &cfg.Store.Mongo.Database)
	setStr("VISHMAKER_MONGO_COLLECTION", &cfg.Store.Mongo.Collection)
	setStr("VISHMAKER_CACHE_BACKEND", &cfg.Cache.Backend)
	setStr("VISHMAKER_CACHE_DIR", &cfg.Cache.Dir)
	setStr("VISHMAKER_REDIS_ADDR", &cfg.Cache.Redis.Addr)
	setStr("VISHMAKER_REDIS_PASSWORD", &cfg.Cache.Redis.Password)

	if v, ok := os.LookupEnv("VISHMAKER_REDIS_DB"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Cache.Redis.DB = n
		}
	}
}
