package router

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/psfs/core/cache"
	"github.com/dmitrymomot/psfs/core/i18n"
	"github.com/dmitrymomot/psfs/core/logger"
	"github.com/dmitrymomot/psfs/core/response"
	"github.com/dmitrymomot/psfs/core/view"
)

// HandlerFunc handles a routed request.
type HandlerFunc func(x *response.Exchange) error

// Admin is the setup wizard entry point.
type Admin interface {
	Config(x *response.Exchange) error
}

// Router holds the route table. Routes must be registered before serving.
type Router struct {
	mux    *chi.Mux
	admin  Admin
	i18n   *i18n.I18n
	logger *slog.Logger
}

// Option configures Router.
type Option func(*Router)

// WithAdmin sets the setup wizard entry point returned by Admin.
func WithAdmin(a Admin) Option {
	return func(rt *Router) {
		rt.admin = a
	}
}

// WithI18n sets the translations of the not-found page.
func WithI18n(tr *i18n.I18n) Option {
	return func(rt *Router) {
		rt.i18n = tr
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(rt *Router) {
		if l != nil {
			rt.logger = l
		}
	}
}

// New creates an empty Router.
func New(opts ...Option) *Router {
	rt := &Router{
		mux:    chi.NewRouter(),
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

type callKey struct{}

// call carries the exchange into the chi handler and the result back out.
type call struct {
	x   *response.Exchange
	err error
	ran bool
}

// Use appends chi-compatible middlewares. They must run before any route is added.
func (rt *Router) Use(middlewares ...func(http.Handler) http.Handler) {
	rt.mux.Use(middlewares...)
}

// Handle registers h for method and pattern.
func (rt *Router) Handle(method, pattern string, h HandlerFunc) {
	rt.mux.MethodFunc(method, pattern, func(_ http.ResponseWriter, r *http.Request) {
		c, ok := r.Context().Value(callKey{}).(*call)
		if !ok {
			return
		}
		c.ran = true
		c.x.SetContext(r.Context())
		c.err = h(c.x)
	})
}

// Get registers h for GET and HEAD.
func (rt *Router) Get(pattern string, h HandlerFunc) {
	rt.Handle(http.MethodGet, pattern, h)
	rt.Handle(http.MethodHead, pattern, h)
}

// Post registers h for POST.
func (rt *Router) Post(pattern string, h HandlerFunc) {
	rt.Handle(http.MethodPost, pattern, h)
}

// Execute runs the handler matching the request method and path.
// It returns false when no route matches.
func (rt *Router) Execute(x *response.Exchange, path string) (bool, error) {
	method := x.Request().Method
	if !rt.mux.Match(chi.NewRouteContext(), method, path) {
		return false, nil
	}

	rctx := chi.NewRouteContext()
	rctx.Routes = rt.mux
	rctx.RoutePath = path
	rctx.RouteMethod = method
	c := &call{x: x}
	ctx := context.WithValue(x.Request().Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, callKey{}, c)
	x.SetContext(ctx)

	rt.logger.Debug("executing route", logger.Method(method), logger.Path(path))
	rt.mux.ServeHTTP(x.ResponseWriter(), x.Request())
	if !c.ran {
		// A middleware answered without calling the route.
		return true, ErrNotDispatched
	}
	return true, c.err
}

// NotFound renders the 404 page. The error text is shown only in debug mode.
func (rt *Router) NotFound(x *response.Exchange, err error) error {
	st := x.State()
	st.SetStatus(http.StatusNotFound)
	x.SetContext(cache.WithTTL(x.Request().Context(), -1))

	var diagnostic string
	if err != nil && st.Debug {
		diagnostic = err.Error()
	}
	body, rerr := view.Render(x, view.NotFound(view.For(rt.i18n, x.Request()), diagnostic))
	if rerr != nil {
		return rerr
	}
	return x.Output(body, "text/html")
}

// Admin returns the setup wizard entry point.
func (rt *Router) Admin() Admin {
	if rt.admin == nil {
		return missingAdmin{}
	}
	return rt.admin
}

type missingAdmin struct{}

func (missingAdmin) Config(*response.Exchange) error {
	return ErrNoAdmin
}

// Param returns the URL parameter key of the current route.
func Param(x *response.Exchange, key string) string {
	return chi.URLParam(x.Request(), key)
}

// Cached caches the response of h for ttl. A negative ttl disables caching.
func Cached(ttl time.Duration, h HandlerFunc) HandlerFunc {
	return func(x *response.Exchange) error {
		x.SetContext(cache.WithTTL(x.Request().Context(), ttl))
		return h(x)
	}
}
