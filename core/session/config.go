package session

import "time"

// Config holds session settings.
type Config struct {
	TTL           time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	TouchInterval time.Duration `env:"SESSION_TOUCH_INTERVAL" envDefault:"5m"`
	CookieName    string        `env:"SESSION_COOKIE" envDefault:"psfs_session"`
	Store         string        `env:"SESSION_STORE" envDefault:"memory"` // memory, redis, postgres
}

func defaultConfig() Config {
	return Config{
		TTL:           24 * time.Hour,
		TouchInterval: 5 * time.Minute,
	}
}

// Option configures the manager.
type Option func(*Config)

// WithTTL sets the session time-to-live.
func WithTTL(ttl time.Duration) Option {
	return func(c *Config) {
		if ttl > 0 {
			c.TTL = ttl
		}
	}
}

// WithTouchInterval sets the minimum time between expiry extensions.
// Zero extends on every save.
func WithTouchInterval(interval time.Duration) Option {
	return func(c *Config) {
		c.TouchInterval = interval
	}
}
