package response

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/psfs/core/cache"
	"github.com/dmitrymomot/psfs/core/logger"
	"github.com/dmitrymomot/psfs/core/request"
)

// Exchange is the per-request handle passed to handlers. It implements
// context.Context by delegating to the request context.
// Not safe for concurrent use.
type Exchange struct {
	emitter *Emitter
	w       http.ResponseWriter
	r       *http.Request
	info    request.Info
	state   State
	logger  *slog.Logger
	scoped  *slog.Logger
	started time.Time

	headersSent bool
	terminated  bool
}

func (x *Exchange) Deadline() (deadline time.Time, ok bool) {
	return x.r.Context().Deadline()
}

func (x *Exchange) Done() <-chan struct{} {
	return x.r.Context().Done()
}

func (x *Exchange) Err() error {
	return x.r.Context().Err()
}

func (x *Exchange) Value(key any) any {
	return x.r.Context().Value(key)
}

// Request returns the current request.
func (x *Exchange) Request() *http.Request {
	return x.r
}

// ResponseWriter returns the underlying writer.
func (x *Exchange) ResponseWriter() http.ResponseWriter {
	return x.w
}

// Info returns the immutable request facts.
func (x *Exchange) Info() request.Info {
	return x.info
}

// State returns the mutable response state.
func (x *Exchange) State() *State {
	return &x.state
}

// Logger returns the logger handlers should use: the one installed by
// ScopeLogger while a scope is open, the request-scoped logger otherwise.
func (x *Exchange) Logger() *slog.Logger {
	if x.scoped != nil {
		return x.scoped
	}
	return x.logger
}

// SetLogger replaces the logger returned by Logger.
func (x *Exchange) SetLogger(l *slog.Logger) {
	if l == nil {
		return
	}
	if x.scoped != nil {
		x.scoped = l
		return
	}
	x.logger = l
}

// ScopeLogger makes Logger return l until the returned func is called.
// The emitter keeps logging through the request-scoped logger.
func (x *Exchange) ScopeLogger(l *slog.Logger) (restore func()) {
	prev := x.scoped
	x.scoped = l
	return func() { x.scoped = prev }
}

// SetContext replaces the request context.
func (x *Exchange) SetContext(ctx context.Context) {
	x.r = x.r.WithContext(ctx)
}

// SetValue stores val under key in the request context.
func (x *Exchange) SetValue(key, val any) {
	x.SetContext(context.WithValue(x.r.Context(), key, val))
}

// Ts returns the seconds elapsed since the exchange started.
func (x *Exchange) Ts() float64 {
	return x.emitter.now().Sub(x.started).Seconds()
}

// HeadersSent reports whether the status line and headers were written.
func (x *Exchange) HeadersSent() bool {
	return x.headersSent
}

// Terminated reports whether Close has run.
func (x *Exchange) Terminated() bool {
	return x.terminated
}

// Output writes body with the assembled headers, stores a cache copy for
// cache-eligible public 200 responses, and closes the exchange. A status
// set outside SetStatus that is not mapped goes out as 200 and is never
// cached.
func (x *Exchange) Output(body []byte, contentType string, cookies ...*http.Cookie) error {
	if x.terminated {
		return ErrTerminated
	}
	x.logger.Debug("start output response")

	if contentType != "" {
		x.state.ContentType = contentType
	}
	x.state.Body = body
	rendered := x.emitter.Compose(x.state, body, "", cookies...)

	mapped := IsMapped(x.state.Status)
	if !mapped {
		x.logger.Debug("unmapped status ignored", logger.StatusCode(x.state.Status))
	}
	x.state.Status = rendered.Status

	if x.emitter.cache != nil && mapped && rendered.Status == http.StatusOK && x.state.PublicZone {
		if ttl, ok := x.emitter.cache.NeedCache(x.r); ok {
			x.writeCache(rendered, ttl)
		}
	}

	if err := x.emit(rendered.Status, rendered.Headers, body); err != nil {
		return errors.Join(err, x.Close())
	}
	x.logger.Debug("end output response")
	return x.Close()
}

// Response is Output without cookies.
func (x *Exchange) Response(body []byte, contentType string) error {
	return x.Output(body, contentType)
}

// RenderCache replays a stored response and closes the exchange. Cookies
// queued on the state for this client are added to the stored lines.
func (x *Exchange) RenderCache(data []byte, headers []string) error {
	if x.terminated {
		return ErrTerminated
	}
	lines := make([]Header, 0, len(headers)+1)
	for _, line := range headers {
		if h, ok := ParseHeader(line); ok {
			lines = append(lines, h)
		}
	}
	for _, c := range x.state.Cookies {
		if v := c.String(); v != "" {
			lines = append(lines, Header{HeaderSetCookie, v})
		}
	}
	lines = append(lines, Header{HeaderCached, "true"})
	x.state.Body = data

	if err := x.emit(http.StatusOK, lines, data); err != nil {
		return errors.Join(err, x.Close())
	}
	return x.Close()
}

// Download sends data as an attachment with no-cache headers and closes the
// exchange. The cache store is never consulted.
func (x *Exchange) Download(data []byte, contentType, filename string) error {
	if x.terminated {
		return ErrTerminated
	}
	if contentType == "" {
		contentType = defaultContentType
	}
	if filename == "" {
		filename = "data.txt"
	}
	filename = strings.NewReplacer(`"`, "", "\r", "", "\n", "").Replace(filename)

	lines := []Header{
		{HeaderPragma, "no-cache"},
		{"Expires", "0"},
		{"Last-Modified", x.emitter.now().UTC().Format(http.TimeFormat)},
		{HeaderCacheControl, "no-store, no-cache, must-revalidate"},
		{HeaderCacheControl, "pre-check=0, post-check=0, max-age=0"},
		{"Content-Transfer-Encoding", "none"},
		{HeaderContentType, contentType},
		{HeaderContentLength, strconv.Itoa(len(data))},
		{HeaderContentDisposition, `attachment; filename="` + filename + `"`},
	}
	x.state.ContentType = contentType
	x.state.Body = data

	if err := x.emit(http.StatusOK, lines, data); err != nil {
		return errors.Join(err, x.Close())
	}
	return x.Close()
}

// Close runs the close sequence once: it records the SessionTail, persists
// the session and logs the end of the request. Later calls are no-ops.
func (x *Exchange) Close() error {
	if x.terminated {
		return nil
	}
	x.terminated = true
	x.logger.Debug("close template render")

	var errs []error
	if s := x.emitter.session; s != nil {
		tail := SessionTail{
			URL: x.info.AbsoluteURL(),
			TS:  float64(x.emitter.now().UnixMicro()) / 1e6,
		}
		if err := s.SetSessionKey(x, LastRequestKey, tail); err != nil {
			errs = append(errs, err)
		}
		if err := s.UpdateSession(x); err != nil {
			errs = append(errs, err)
		}
	}

	err := errors.Join(errs...)
	attrs := []any{logger.StatusCode(x.state.Status), logger.Elapsed(x.started)}
	if err != nil {
		x.logger.Error("end request", append(attrs, logger.Error(err))...)
	} else {
		x.logger.Info("end request", attrs...)
	}
	return err
}

func (x *Exchange) writeCache(rendered Rendered, ttl time.Duration) {
	path, name := x.emitter.cache.RequestHash(x.r)
	x.logger.Debug("saving output response into cache", logger.CacheKey(cache.DataKey(path, name)))

	// A failed cache write never blocks the response.
	err := errors.Join(
		x.emitter.cache.StoreData(x, cache.DataKey(path, name), rendered.Body, cache.FormatText, ttl),
		x.emitter.cache.StoreData(x, cache.HeadersKey(path, name), rendered.CacheLines(), cache.FormatJSON, ttl),
	)
	if err != nil {
		x.logger.Warn("cache write failed", logger.CacheKey(cache.DataKey(path, name)), logger.Error(err))
	}
}

func (x *Exchange) emit(status int, lines []Header, body []byte) error {
	if x.headersSent {
		return ErrHeadersSent
	}
	x.headersSent = true

	h := x.w.Header()
	for _, line := range lines {
		h.Add(line.Name, line.Value)
	}
	x.w.WriteHeader(status)

	if len(body) == 0 {
		return nil
	}
	_, err := x.w.Write(body)
	return err
}
