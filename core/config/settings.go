package config

import (
	"path/filepath"

	"github.com/dmitrymomot/psfs/core/cache"
	"github.com/dmitrymomot/psfs/core/cookie"
	"github.com/dmitrymomot/psfs/core/server"
	"github.com/dmitrymomot/psfs/core/session"
	"github.com/dmitrymomot/psfs/integration/database/pg"
	"github.com/dmitrymomot/psfs/integration/database/redis"
	"github.com/dmitrymomot/psfs/integration/storage/s3"
)

// Settings is the process configuration read from the environment.
type Settings struct {
	AppName         string `env:"APP_NAME" envDefault:"psfs"`
	Debug           bool   `env:"DEBUG" envDefault:"false"`
	DefaultLanguage string `env:"DEFAULT_LANGUAGE" envDefault:"es_ES"`
	PoweredBy       string `env:"POWERED_BY" envDefault:"PSFS"`
	BaseDir         string `env:"BASE_DIR" envDefault:"."`
	AdminPrefix     string `env:"ADMIN_PREFIX" envDefault:"/admin"`
	LogLevel        string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string `env:"LOG_FORMAT" envDefault:"text"`

	Server  server.Config
	Cache   cache.Config
	Session session.Config
	Cookie  cookie.Config
	Redis   redis.Config
	DB      pg.Config
	S3      s3.Config
}

// ConfigDir is <BaseDir>/config.
func (s Settings) ConfigDir() string {
	return filepath.Join(s.BaseDir, "config")
}

// LocaleDir is <BaseDir>/locale.
func (s Settings) LocaleDir() string {
	return filepath.Join(s.BaseDir, "locale")
}

// ParamsFile is the path of the runtime parameters file.
func (s Settings) ParamsFile() string {
	return filepath.Join(s.ConfigDir(), "config.yml")
}
