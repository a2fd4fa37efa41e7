// Package cache stores placement layouts and rendered artifacts.
//
// Only seeded scenes produce reproducible layouts, so only those are ever
// written. The [Cache] interface is a plain byte store with expiry:
//
//   - [NullCache] disables caching
//   - [FileCache] keeps entries under a local directory for the CLI
//   - [RedisCache] shares entries between server instances
//   - [MongoCache] keeps entries as documents with a TTL index
//
// Keys come from a [Keyer] so that tenants or environments can be isolated
// with [ScopedKeyer].
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the stored data and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any connections held by the cache.
	Close() error
}

// Backend names accepted by [New].
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Options selects and configures a backend.
type Options struct {
	Backend string

	// Dir is the FileCache directory.
	Dir string

	RedisAddr string
	RedisDB   int

	MongoURI        string
	MongoDatabase   string
	MongoCollection string
}

// New opens the backend named by opts.Backend. An empty backend selects
// the file cache.
func New(ctx context.Context, opts Options) (Cache, error) {
	var (
		c   Cache
		err error
	)
	switch opts.Backend {
	case BackendNone:
		return NewNullCache(), nil
	case BackendFile, "":
		c, err = NewFileCache(opts.Dir)
	case BackendRedis:
		c, err = NewRedisCache(ctx, opts.RedisAddr, opts.RedisDB)
	case BackendMongo:
		c, err = NewMongoCache(ctx, opts.MongoURI, opts.MongoDatabase, opts.MongoCollection)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetJSON decodes the entry under key into v. It returns ErrCacheMiss when
// the key is absent.
func GetJSON(ctx context.Context, c Cache, key string, v any) error {
	data, ok, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCacheMiss
	}
	return json.Unmarshal(data, v)
}

// SetJSON stores the JSON encoding of v under key.
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, data, ttl)
}
