package cache

import (
	"context"
	"fmt"
	"time"
)

// Backend names accepted by Config.Backend.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
	BackendS3     = "s3"
)

// Config is the environment-driven cache configuration.
type Config struct {
	Enabled     bool          `env:"CACHE_ENABLED" envDefault:"false"`
	Backend     string        `env:"CACHE_BACKEND" envDefault:"memory"`
	TTL         time.Duration `env:"CACHE_TTL" envDefault:"5m"`
	Capacity    int           `env:"CACHE_CAPACITY" envDefault:"1024"`
	Dir         string        `env:"CACHE_DIR" envDefault:"cache"`
	Compress    bool          `env:"CACHE_COMPRESS" envDefault:"false"`
	SQLitePath  string        `env:"CACHE_SQLITE_PATH" envDefault:"cache.db"`
	RedisPrefix string        `env:"CACHE_REDIS_PREFIX" envDefault:"psfs:cache:"`
	VaryHeaders []string      `env:"CACHE_VARY_HEADERS" envSeparator:","`
}

// Deps carries the shared clients a backend may need.
type Deps struct {
	Redis   RedisClient
	Objects ObjectStorage
}

// OpenBackend builds the backend named in cfg.
func OpenBackend(ctx context.Context, cfg Config, deps Deps) (Backend, error) {
	switch cfg.Backend {
	case "", BackendMemory:
		return NewMemoryBackend(cfg.Capacity), nil
	case BackendFile:
		var opts []FileOption
		if cfg.Compress {
			opts = append(opts, WithCompression())
		}
		return NewFileBackend(cfg.Dir, opts...)
	case BackendRedis:
		if deps.Redis == nil {
			return nil, fmt.Errorf("%w: redis client is required", ErrUnknownBackend)
		}
		return NewRedisBackend(deps.Redis, cfg.RedisPrefix), nil
	case BackendSQLite:
		return OpenSQLite(ctx, cfg.SQLitePath)
	case BackendS3:
		if deps.Objects == nil {
			return nil, fmt.Errorf("%w: object storage is required", ErrUnknownBackend)
		}
		return NewS3Backend(deps.Objects), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
