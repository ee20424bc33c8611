package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/psfs/core/cache"
	"github.com/dmitrymomot/psfs/core/config"
	"github.com/dmitrymomot/psfs/core/cookie"
	"github.com/dmitrymomot/psfs/core/dispatch"
	"github.com/dmitrymomot/psfs/core/health"
	"github.com/dmitrymomot/psfs/core/logger"
	"github.com/dmitrymomot/psfs/core/response"
	"github.com/dmitrymomot/psfs/core/router"
	"github.com/dmitrymomot/psfs/core/security"
	"github.com/dmitrymomot/psfs/core/session"
	"github.com/dmitrymomot/psfs/core/view"
	"github.com/dmitrymomot/psfs/integration/database/pg"
	"github.com/dmitrymomot/psfs/integration/database/redis"
	"github.com/dmitrymomot/psfs/integration/storage/s3"
)

// expirer is implemented by stores that need a periodic sweep.
type expirer interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// app holds the wired components of one process.
type app struct {
	settings config.Settings
	log      *slog.Logger
	params   *config.Service
	store    *cache.Store
	sessions *session.Manager
	router   *router.Router
	handler  http.Handler

	rdb      goredis.UniversalClient
	pool     *pgxpool.Pool
	checks   []health.Check
	sweepers map[string]expirer
	closers  []func() error
}

// Close releases every client in reverse order of creation.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

// redis connects on first use so both the cache and the session store share
// one client.
func (a *app) redis(ctx context.Context) (goredis.UniversalClient, error) {
	if a.rdb != nil {
		return a.rdb, nil
	}
	rdb, err := redis.Connect(ctx, a.settings.Redis)
	if err != nil {
		return nil, err
	}
	a.rdb = rdb
	a.checks = append(a.checks, redis.Healthcheck(rdb))
	a.closers = append(a.closers, func() error {
		// The redis cache backend may have closed it already.
		if err := rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
		return nil
	})
	return rdb, nil
}

func (a *app) postgres(ctx context.Context) (*pgxpool.Pool, error) {
	if a.pool != nil {
		return a.pool, nil
	}
	pool, err := pg.Connect(ctx, a.settings.DB)
	if err != nil {
		return nil, err
	}
	a.pool = pool
	a.checks = append(a.checks, pg.Healthcheck(pool))
	a.closers = append(a.closers, func() error {
		pool.Close()
		return nil
	})
	return pool, nil
}

// openCache opens the configured cache backend and wraps it in a Store.
func (a *app) openCache(ctx context.Context) error {
	s := a.settings

	var deps cache.Deps
	switch s.Cache.Backend {
	case cache.BackendRedis:
		rdb, err := a.redis(ctx)
		if err != nil {
			return err
		}
		deps.Redis = rdb
	case cache.BackendS3:
		objects, err := s3.New(ctx, s.S3)
		if err != nil {
			return err
		}
		deps.Objects = objects
	}

	backend, err := cache.OpenBackend(ctx, s.Cache, deps)
	if err != nil {
		return err
	}
	if e, ok := backend.(expirer); ok {
		a.sweepers["cache"] = e
	}

	a.store = cache.NewStore(backend,
		cache.WithEnabled(s.Cache.Enabled),
		cache.WithDefaultTTL(s.Cache.TTL),
		cache.WithAdminPrefix(s.AdminPrefix),
		cache.WithVaryHeaders(s.Cache.VaryHeaders...),
		// Cached pages are split by render language and signed-in user.
		cache.WithDimension(view.Language),
		cache.WithDimension(security.CacheUser),
		cache.WithLogger(a.log.With(logger.Component("cache"))),
	)
	a.closers = append(a.closers, a.store.Close)
	return nil
}

// openSessions opens the configured session store and its manager.
func (a *app) openSessions(ctx context.Context) error {
	s := a.settings

	var store session.Store
	switch s.Session.Store {
	case "redis":
		rdb, err := a.redis(ctx)
		if err != nil {
			return err
		}
		store = session.NewRedisStore(rdb, "psfs:session:")
	case "postgres":
		pool, err := a.postgres(ctx)
		if err != nil {
			return err
		}
		ps := session.NewPostgresStore(pool)
		if err := ps.Migrate(ctx); err != nil {
			return err
		}
		store = ps
	default:
		store = session.NewMemoryStore()
	}
	a.sweepers["sessions"] = store

	a.sessions = session.NewManager(store,
		session.WithTTL(s.Session.TTL),
		session.WithTouchInterval(s.Session.TouchInterval),
	)
	return nil
}

// newApp wires settings into a ready-to-serve handler. The caller owns Close.
func newApp(ctx context.Context, s config.Settings) (_ *app, err error) {
	log := newLogger(s)
	a := &app{settings: s, log: log, sweepers: map[string]expirer{}}
	defer func() {
		if err != nil {
			err = errors.Join(err, a.Close())
		}
	}()

	a.params, err = config.New(s, config.WithLogger(log.With(logger.Component("config"))))
	if err != nil {
		return nil, err
	}
	if err := a.openCache(ctx); err != nil {
		return nil, err
	}
	if err := a.openSessions(ctx); err != nil {
		return nil, err
	}

	cookies, err := cookie.NewFromConfig(s.Cookie)
	if err != nil {
		return nil, err
	}
	sec := security.New(a.sessions, cookies,
		security.WithCookieName(s.Session.CookieName),
		security.WithLogger(log.With(logger.Component("security"))),
	)

	a.router = router.New(
		router.WithAdmin(a.params),
		router.WithLogger(log.With(logger.Component("router"))),
	)
	a.router.Get(s.AdminPrefix+"/config", a.params.Config)
	a.router.Post(s.AdminPrefix+"/config", a.params.Config)

	emitter := response.NewEmitter(
		response.WithPoweredBy(s.PoweredBy),
		response.WithDebug(s.Debug),
		response.WithCache(a.store),
		response.WithSessionRecorder(sec),
		response.WithLogger(log.With(logger.Component("response"))),
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := dispatch.NewMetrics(reg)
	if err != nil {
		return nil, err
	}

	d, err := dispatch.New(a.router, a.params, sec, emitter,
		dispatch.WithCache(a.store),
		dispatch.WithMetrics(metrics),
		dispatch.WithLocaleDir(s.LocaleDir()),
		dispatch.WithLogger(log.With(logger.Component("dispatch"))),
	)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	mux.Handle("/health/live", health.Liveness())
	mux.Handle("/health/ready", health.Readiness(log, a.checks...))
	mux.Handle("/", d)
	a.handler = mux

	return a, nil
}

// sweep removes expired entries every interval until ctx ends.
func (a *app) sweep(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			for name, e := range a.sweepers {
				n, err := e.DeleteExpired(ctx)
				if err != nil {
					a.log.WarnContext(ctx, "expiry sweep failed", slog.String("target", name), logger.Error(err))
					continue
				}
				if n > 0 {
					a.log.DebugContext(ctx, "expired entries removed", slog.String("target", name), slog.Int64("count", n))
				}
			}
		}
	}
}
