// Package config loads veifa settings from a TOML file.
//
// Every field has a default, so an empty or missing file yields a working
// configuration:
//
//	[placement]
//	max_attempts = 50
//	growth_factor = 1.2
//	min_size = 50
//	max_height = 1000
//	max_width = 1000
//
//	[thumbs]
//	min_container = 100
//	title_margin = 0
//
//	[cache]
//	backend = "file"   # file, redis, mongo or none
//	ttl = "168h"
//
//	[server]
//	addr = ":8080"
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/benreynwar/veifa/pkg/cache"
	"github.com/benreynwar/veifa/pkg/errors"
	"github.com/benreynwar/veifa/pkg/placement"
)

// EnvPath names the environment variable holding the config file path.
const EnvPath = "VEIFA_CONFIG"

// Config is the root of the configuration file.
type Config struct {
	Placement Placement `toml:"placement"`
	Thumbs    Thumbs    `toml:"thumbs"`
	Cache     Cache     `toml:"cache"`
	Server    Server    `toml:"server"`
}

// Placement holds the placement engine constants.
type Placement struct {
	MaxAttempts  int     `toml:"max_attempts"`
	GrowthFactor float64 `toml:"growth_factor"`
	MinSize      float64 `toml:"min_size"`
	MaxHeight    float64 `toml:"max_height"`
	MaxWidth     float64 `toml:"max_width"`
}

// Thumbs holds settings for laying out annotation thumbnails.
type Thumbs struct {
	MinContainer float64 `toml:"min_container"`
	TitleMargin  float64 `toml:"title_margin"`
	NoImageURL   string  `toml:"no_image_url"`
}

// Cache selects the layout cache backend.
type Cache struct {
	Backend         string        `toml:"backend"`
	Dir             string        `toml:"dir"`
	TTL             time.Duration `toml:"ttl"`
	RedisAddr       string        `toml:"redis_addr"`
	RedisDB         int           `toml:"redis_db"`
	MongoURI        string        `toml:"mongo_uri"`
	MongoDatabase   string        `toml:"mongo_database"`
	MongoCollection string        `toml:"mongo_collection"`
}

// Server configures the HTTP API.
type Server struct {
	Addr         string        `toml:"addr"`
	ReadTimeout  time.Duration `toml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout"`
}

// Default values not owned by the placement package.
const (
	DefaultMinContainer = 100.0
	DefaultNoImageURL   = "/static/no_image.png"
	DefaultCacheTTL     = 7 * 24 * time.Hour
	DefaultAddr         = ":8080"
	DefaultReadTimeout  = 10 * time.Second
	DefaultWriteTimeout = 30 * time.Second
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Placement: Placement{
			MaxAttempts:  placement.DefaultMaxAttempts,
			GrowthFactor: placement.DefaultGrowthFactor,
			MinSize:      placement.DefaultMinSize,
			MaxHeight:    placement.DefaultMaxHeight,
			MaxWidth:     placement.DefaultMaxWidth,
		},
		Thumbs: Thumbs{
			MinContainer: DefaultMinContainer,
			NoImageURL:   DefaultNoImageURL,
		},
		Cache: Cache{
			Backend: cache.BackendFile,
			Dir:     DefaultCacheDir(),
			TTL:     DefaultCacheTTL,
		},
		Server: Server{
			Addr:         DefaultAddr,
			ReadTimeout:  DefaultReadTimeout,
			WriteTimeout: DefaultWriteTimeout,
		},
	}
}

// Load reads the file at path over the defaults and validates the result.
// An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s not found", path)
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	return Parse(data)
}

// Parse decodes TOML data over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects settings under which placement could not terminate or
// the cache could not be opened.
func (c Config) Validate() error {
	p := c.Placement
	if p.MaxAttempts <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "placement.max_attempts must be positive (got %d)", p.MaxAttempts)
	}
	if !(p.GrowthFactor > 1) {
		return errors.New(errors.ErrCodeInvalidConfig, "placement.growth_factor must be greater than 1 (got %g)", p.GrowthFactor)
	}
	if !(p.MinSize > 0) || !(p.MaxHeight > 0) || !(p.MaxWidth > 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "placement sizes must be positive")
	}
	if p.MinSize > p.MaxHeight || p.MinSize > p.MaxWidth {
		return errors.New(errors.ErrCodeInvalidConfig, "placement.min_size %g exceeds the maximum size %gx%g", p.MinSize, p.MaxHeight, p.MaxWidth)
	}
	if c.Thumbs.MinContainer < 0 || c.Thumbs.TitleMargin < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "thumbs sizes cannot be negative")
	}

	switch c.Cache.Backend {
	case cache.BackendNone, cache.BackendFile, cache.BackendRedis, cache.BackendMongo:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl cannot be negative")
	}
	return nil
}

// PlacementConfig converts the placement section for the engine.
func (c Config) PlacementConfig() placement.Config {
	p := c.Placement
	return placement.Config{
		MaxAttempts:  p.MaxAttempts,
		GrowthFactor: p.GrowthFactor,
		MinSize:      placement.Size{Height: p.MinSize, Width: p.MinSize},
		MaxSize:      placement.Size{Height: p.MaxHeight, Width: p.MaxWidth},
	}
}

// CacheOptions converts the cache section for cache.New.
func (c Config) CacheOptions() cache.Options {
	return cache.Options{
		Backend:         c.Cache.Backend,
		Dir:             c.Cache.Dir,
		RedisAddr:       c.Cache.RedisAddr,
		RedisDB:         c.Cache.RedisDB,
		MongoURI:        c.Cache.MongoURI,
		MongoDatabase:   c.Cache.MongoDatabase,
		MongoCollection: c.Cache.MongoCollection,
	}
}

// DefaultCacheDir returns the XDG cache directory for veifa.
func DefaultCacheDir() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, "veifa")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "veifa-cache")
	}
	return filepath.Join(home, ".cache", "veifa")
}
