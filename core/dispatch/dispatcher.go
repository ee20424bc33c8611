package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/psfs/core/cache"
	"github.com/dmitrymomot/psfs/core/i18n"
	"github.com/dmitrymomot/psfs/core/logger"
	"github.com/dmitrymomot/psfs/core/response"
	"github.com/dmitrymomot/psfs/core/router"
	"github.com/dmitrymomot/psfs/core/view"
)

// Router runs routed execution and renders the not-found page.
type Router interface {
	Execute(x *response.Exchange, path string) (bool, error)
	NotFound(x *response.Exchange, err error) error
	Admin() router.Admin
}

// Config answers whether the application is ready to serve.
type Config interface {
	IsConfigured() bool
	DebugMode() bool
	Get(key string) string
	Param(key, def string) string
	Config(x *response.Exchange) error
}

// Security starts sessions and renders the not-authorized page.
type Security interface {
	Start(x *response.Exchange) error
	NotAuthorized(x *response.Exchange, uri string) error
}

// CacheReader finds a stored response for a request.
type CacheReader interface {
	Lookup(ctx context.Context, r *http.Request) (cache.Entry, bool, error)
}

// Outcome labels recorded in metrics besides the classifier outcomes.
const (
	outcomeOK     = "ok"
	outcomeSetup  = "setup"
	outcomeStatic = "static"
	outcomeCached = "cached"
	outcomeFailed = "failed"
)

// Dispatcher is the http.Handler of the request core. Safe for concurrent use.
type Dispatcher struct {
	router   Router
	config   Config
	security Security
	emitter  *response.Emitter
	cache    CacheReader
	metrics  *Metrics
	logger   *slog.Logger

	localeDir string
	i18n      *i18n.I18n
	stats     *Stats
	now       func() time.Time
	mem       func() uint64
}

// Option configures Dispatcher.
type Option func(*Dispatcher)

// WithCache enables replay of cached responses before routed execution.
func WithCache(c CacheReader) Option {
	return func(d *Dispatcher) {
		d.cache = c
	}
}

// WithMetrics records every request in m.
func WithMetrics(m *Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// WithLocaleDir loads translation overrides from dir, creating it if missing.
func WithLocaleDir(dir string) Option {
	return func(d *Dispatcher) {
		d.localeDir = dir
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithClock overrides time.Now and the heap reader used by Stats.
func WithClock(now func() time.Time, mem func() uint64) Option {
	return func(d *Dispatcher) {
		if now != nil {
			d.now = now
		}
		if mem != nil {
			d.mem = mem
		}
	}
}

// New creates the Dispatcher and sets up the locale once.
func New(rt Router, cfg Config, sec Security, emitter *response.Emitter, opts ...Option) (*Dispatcher, error) {
	d := &Dispatcher{
		router:   rt,
		config:   cfg,
		security: sec,
		emitter:  emitter,
		logger:   logger.Nop(),
		now:      time.Now,
		mem:      heapAlloc,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.stats = newStats(d.now, d.mem)

	if err := d.setupLocale(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Dispatcher) setupLocale() error {
	lang := d.config.Param("default_language", i18n.DefaultLang)
	if _, err := i18n.Normalize(lang); err != nil {
		d.logger.Warn("invalid default language, using fallback", slog.String("language", lang), logger.Error(err))
		lang = i18n.DefaultLang
	}

	opts := []i18n.Option{i18n.WithDefaultLanguage(lang)}
	if d.localeDir != "" {
		if err := i18n.EnsureDir(d.localeDir); err != nil {
			return err
		}
		opts = append(opts, i18n.WithDir(d.localeDir, view.Namespace))
	}
	tr, err := view.NewI18n(opts...)
	if err != nil {
		return err
	}
	d.i18n = tr
	d.logger.Debug("locale ready", slog.String("language", tr.DefaultLanguage()), slog.Any("languages", tr.Languages()))
	return nil
}

// I18n returns the translations loaded at construction.
func (d *Dispatcher) I18n() *i18n.I18n {
	return d.i18n
}

// Ts returns the seconds since the dispatcher was created.
func (d *Dispatcher) Ts() float64 {
	return d.stats.Ts()
}

// Mem returns the heap growth since the dispatcher was created.
func (d *Dispatcher) Mem(unit Unit) float64 {
	return d.stats.Mem(unit)
}

// ServeHTTP runs one request to completion. It never panics, except to
// propagate http.ErrAbortHandler, and the close sequence runs on every path.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := d.now()
	x := d.emitter.Exchange(w, r)
	x.SetContext(i18n.WithContext(x.Request().Context(), d.i18n))
	x.SetLogger(x.Logger().With(logger.RequestID(uuid.NewString())))

	outcome := outcomeFailed
	defer func() {
		v := recover()
		if v != nil && !isAbort(v) {
			err := promote(v, false)
			x.Logger().Error("request panicked", NewErrorRecord(err).Attrs()...)
			d.finish(x, err)
			v = nil
		}
		if err := x.Close(); err != nil {
			x.Logger().Error("close sequence failed", logger.Error(err))
		}
		d.metrics.observe(outcome, d.now().Sub(start))
		if v != nil {
			panic(v)
		}
	}()

	outcome = d.run(x)
}

func (d *Dispatcher) run(x *response.Exchange) string {
	info := x.Info()
	x.Logger().Info("begin request")
	x.State().Debug = d.config.DebugMode()

	if err := d.security.Start(x); err != nil {
		x.Logger().Warn("session start failed", logger.Error(err))
	}

	if !d.config.IsConfigured() {
		x.Logger().Info("application not configured, running setup")
		d.finish(x, d.router.Admin().Config(x))
		return outcomeSetup
	}

	if info.IsFile {
		x.Logger().Debug("static file requested", logger.Path(info.ScriptURL))
		d.finish(x, d.router.NotFound(x, nil))
		return outcomeStatic
	}

	if d.replay(x) {
		return outcomeCached
	}

	handled, err := d.execute(x, info.ScriptURL)
	if err != nil {
		return d.fail(x, err)
	}
	if !handled {
		d.finish(x, d.router.NotFound(x, nil))
		return OutcomeNotFound.String()
	}
	return outcomeOK
}

func (d *Dispatcher) replay(x *response.Exchange) bool {
	if d.cache == nil {
		return false
	}
	entry, ok, err := d.cache.Lookup(x, x.Request())
	if err != nil {
		x.Logger().Warn("cache lookup failed", logger.Error(err))
		return false
	}
	if !ok {
		return false
	}
	x.Logger().Debug("serving response from cache", logger.CacheKey(entry.Path))
	if err := x.RenderCache(entry.Body, entry.Headers); err != nil {
		x.Logger().Error("cache replay failed", logger.CacheKey(entry.Path), logger.Error(err))
	}
	return true
}

// execute runs the router. In debug mode warnings logged by handlers abort
// execution as runtime-signal failures. Panics are always recovered.
func (d *Dispatcher) execute(x *response.Exchange, path string) (handled bool, err error) {
	debug := x.State().Debug
	if debug {
		restore := x.ScopeLogger(slog.New(strictHandler{inner: x.Logger().Handler()}))
		defer restore()
	}

	defer func() {
		if v := recover(); v != nil {
			if isAbort(v) {
				panic(v)
			}
			handled, err = true, promote(v, debug)
		}
	}()
	return d.router.Execute(x, path)
}

func (d *Dispatcher) fail(x *response.Exchange, err error) string {
	rec := NewErrorRecord(err)
	x.Logger().Error("request failed", rec.Attrs()...)

	outcome := Classify(err)
	if x.HeadersSent() || x.Terminated() {
		x.Logger().Warn("response already sent, failure not rendered", slog.String("outcome", outcome.String()))
		return outcome.String()
	}

	switch outcome {
	case OutcomeNeedsConfiguration:
		d.finish(x, d.config.Config(x))
	case OutcomeNotAuthorized:
		d.finish(x, d.security.NotAuthorized(x, x.Info().RequestURI))
	default:
		d.finish(x, d.router.NotFound(x, err))
	}
	return outcome.String()
}

// finish logs a terminal handler error and makes sure the client gets a response.
func (d *Dispatcher) finish(x *response.Exchange, err error) {
	if err == nil {
		return
	}
	x.Logger().Error("terminal handler failed", logger.Error(err))
	if x.HeadersSent() || x.Terminated() {
		return
	}
	st := x.State()
	st.SetStatus(http.StatusInternalServerError)
	if rerr := x.Response([]byte(http.StatusText(http.StatusInternalServerError)), "text/plain"); rerr != nil && !errors.Is(rerr, response.ErrTerminated) {
		x.Logger().Error("fallback response failed", logger.Error(rerr))
	}
}
