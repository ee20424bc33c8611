package config

import (
	"errors"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var ErrParse = errors.New("config: failed to parse environment")

var (
	dotenvOnce sync.Once
	cacheMu    sync.RWMutex
	loaded     = map[reflect.Type]any{}
)

// Load fills cfg from the environment. The first successful load of a type is
// cached and copied into later calls for the same type.
func Load[T any](cfg *T) error {
	dotenvOnce.Do(func() {
		// A missing .env file is the normal production case.
		_ = godotenv.Load()
	})

	typ := reflect.TypeFor[T]()
	cacheMu.RLock()
	cached, ok := loaded[typ]
	cacheMu.RUnlock()
	if ok {
		*cfg = cached.(T)
		return nil
	}

	cacheMu.Lock()
	defer cacheMu.Unlock()
	if cached, ok := loaded[typ]; ok {
		*cfg = cached.(T)
		return nil
	}
	if err := env.Parse(cfg); err != nil {
		return errors.Join(ErrParse, err)
	}
	loaded[typ] = *cfg
	return nil
}

// MustLoad is Load that panics on error.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}
