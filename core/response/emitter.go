package response

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrymomot/psfs/core/cache"
	"github.com/dmitrymomot/psfs/core/logger"
	"github.com/dmitrymomot/psfs/core/request"
)

// LastRequestKey is the session key holding the SessionTail.
const LastRequestKey = "lastRequest"

// CacheStore is the cache capability the emitter writes through.
type CacheStore interface {
	NeedCache(r *http.Request) (time.Duration, bool)
	RequestHash(r *http.Request) (path, name string)
	StoreData(ctx context.Context, key string, value any, format cache.Format, ttl time.Duration) error
}

// SessionRecorder receives the SessionTail at the end of every request.
type SessionRecorder interface {
	SetSessionKey(x *Exchange, key string, value any) error
	UpdateSession(x *Exchange) error
}

// SessionTail records the last visited URL.
type SessionTail struct {
	URL string  `json:"url"`
	TS  float64 `json:"ts"`
}

// Rendered is a fully composed response, ready to be written.
type Rendered struct {
	Status  int
	Headers []Header
	Body    []byte
}

// Emitter creates exchanges and holds the collaborators they share.
type Emitter struct {
	poweredBy string
	debug     bool
	cache     CacheStore
	session   SessionRecorder
	logger    *slog.Logger
	now       func() time.Time
}

// EmitterOption configures Emitter.
type EmitterOption func(*Emitter)

// WithPoweredBy sets the X-Powered-By value.
func WithPoweredBy(v string) EmitterOption {
	return func(e *Emitter) {
		if v != "" {
			e.poweredBy = v
		}
	}
}

// WithDebug marks new response states as debug.
func WithDebug(debug bool) EmitterOption {
	return func(e *Emitter) {
		e.debug = debug
	}
}

// WithCache enables cache write-through.
func WithCache(c CacheStore) EmitterOption {
	return func(e *Emitter) {
		e.cache = c
	}
}

// WithSessionRecorder sets the session bookkeeping used by Close.
func WithSessionRecorder(s SessionRecorder) EmitterOption {
	return func(e *Emitter) {
		e.session = s
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) EmitterOption {
	return func(e *Emitter) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) EmitterOption {
	return func(e *Emitter) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEmitter creates an Emitter.
func NewEmitter(opts ...EmitterOption) *Emitter {
	e := &Emitter{
		poweredBy: "PSFS",
		logger:    logger.Nop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Exchange starts the response side of one request.
func (e *Emitter) Exchange(w http.ResponseWriter, r *http.Request) *Exchange {
	info, ok := request.FromContext(r.Context())
	if !ok {
		info = request.New(r)
		r = r.WithContext(request.WithInfo(r.Context(), info))
	}
	return &Exchange{
		emitter: e,
		w:       w,
		r:       r,
		info:    info,
		state:   NewState(e.debug),
		logger:  e.logger.With(logger.Method(info.Method), logger.URI(info.RequestURI)),
		started: e.now(),
	}
}

// Compose builds the response for st with body and content type applied.
// It does not touch any transport.
func (e *Emitter) Compose(st State, body []byte, contentType string, cookies ...*http.Cookie) Rendered {
	if contentType != "" {
		st.ContentType = contentType
	}
	st.Cookies = append(st.Cookies[:len(st.Cookies):len(st.Cookies)], cookies...)

	hs := Assemble(st, e.poweredBy)
	return Rendered{
		Status:  hs.Status,
		Headers: append(hs.Lines, contentLength(body)),
		Body:    body,
	}
}

// CacheLines returns the header lines stored in the cache sidecar.
// Set-Cookie lines are per-client and never cached.
func (r Rendered) CacheLines() []string {
	out := make([]string, 0, len(r.Headers))
	for _, h := range r.Headers {
		if strings.EqualFold(h.Name, HeaderSetCookie) {
			continue
		}
		out = append(out, h.String())
	}
	return out
}
