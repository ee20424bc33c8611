package security

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/psfs/core/cookie"
	"github.com/dmitrymomot/psfs/core/i18n"
	"github.com/dmitrymomot/psfs/core/logger"
	"github.com/dmitrymomot/psfs/core/response"
	"github.com/dmitrymomot/psfs/core/session"
	"github.com/dmitrymomot/psfs/core/view"
	"github.com/dmitrymomot/psfs/pkg/clientip"
)

// SessionTail is the value recorded under response.LastRequestKey.
type SessionTail = response.SessionTail

// DefaultCookieName names the session cookie when none is configured.
const DefaultCookieName = "psfs_session"

// UserKey is the session key holding the authenticated user.
const UserKey = "user"

type sessionKey struct{}

// Service manages the per-request session. Safe for concurrent use; the
// session itself lives on the exchange.
type Service struct {
	sessions   *session.Manager
	cookies    *cookie.Manager
	cookieName string
	i18n       *i18n.I18n
	logger     *slog.Logger
}

// Option configures Service.
type Option func(*Service)

// WithCookieName sets the session cookie name.
func WithCookieName(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.cookieName = name
		}
	}
}

// WithI18n sets the translations of the not-authorized page.
func WithI18n(tr *i18n.I18n) Option {
	return func(s *Service) {
		s.i18n = tr
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Service.
func New(sessions *session.Manager, cookies *cookie.Manager, opts ...Option) *Service {
	s := &Service{
		sessions:   sessions,
		cookies:    cookies,
		cookieName: DefaultCookieName,
		logger:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start attaches the client's session to x, creating one when the cookie is
// missing, forged or points at an expired session. A new session's cookie is
// queued on the response state, so Start must run before any output.
func (s *Service) Start(x *response.Exchange) error {
	r := x.Request()

	if token, err := s.cookies.Verify(r, s.cookieName); err == nil {
		sess, err := s.sessions.GetByToken(x, token)
		if err == nil {
			s.attach(x, &sess)
			return nil
		}
		if !errors.Is(err, session.ErrNotFound) && !errors.Is(err, session.ErrExpired) {
			return err
		}
		x.Logger().Debug("session not found, starting a new one", logger.Error(err))
	} else if !errors.Is(err, cookie.ErrCookieNotFound) {
		x.Logger().Warn("rejected session cookie", logger.Error(err))
	}

	sess, err := s.sessions.Create(session.NewSessionParams{
		IP:        clientip.GetIP(r),
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		return err
	}
	if err := s.queueCookie(x, sess); err != nil {
		return err
	}
	s.attach(x, &sess)
	return nil
}

// Session returns the session attached by Start.
func (s *Service) Session(x *response.Exchange) (*session.Session, bool) {
	sess, ok := x.Value(sessionKey{}).(*session.Session)
	return sess, ok
}

// SetSessionKey stores value in the current session.
func (s *Service) SetSessionKey(x *response.Exchange, key string, value any) error {
	sess, ok := s.Session(x)
	if !ok {
		return ErrNoSession
	}
	sess.Set(key, value)
	return nil
}

// SessionKey reads a value from the current session.
func (s *Service) SessionKey(x *response.Exchange, key string) (any, bool) {
	sess, ok := s.Session(x)
	if !ok {
		return nil, false
	}
	return sess.Get(key)
}

// UpdateSession persists the current session. A logged-out session is
// removed from the store.
func (s *Service) UpdateSession(x *response.Exchange) error {
	sess, ok := s.Session(x)
	if !ok {
		return ErrNoSession
	}
	if err := s.sessions.Store(x, *sess); err != nil && !errors.Is(err, session.ErrDeleted) {
		return err
	}
	return nil
}

// Logout ends the current session and expires the cookie. Must run before output.
func (s *Service) Logout(x *response.Exchange) error {
	sess, ok := s.Session(x)
	if !ok {
		return ErrNoSession
	}
	sess.Logout()
	x.State().AddCookie(s.cookies.Expired(s.cookieName))
	return nil
}

// NotAuthorized renders the 401 page naming uri. The page is private.
func (s *Service) NotAuthorized(x *response.Exchange, uri string) error {
	x.Logger().Info("not authorized", logger.URI(uri))
	st := x.State()
	st.SetStatus(http.StatusUnauthorized)
	st.SetPublicZone(false)

	body, err := view.Render(x, view.NotAuthorized(view.For(s.i18n, x.Request()), uri))
	if err != nil {
		return err
	}
	return x.Output(body, "text/html")
}

// CacheUser returns the authenticated user of the session Start attached to
// r, or "" for anonymous clients. It is a cache fingerprint dimension, so
// signed-in users never share cached pages.
func CacheUser(r *http.Request) string {
	sess, ok := r.Context().Value(sessionKey{}).(*session.Session)
	if !ok {
		return ""
	}
	v, ok := sess.Get(UserKey)
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func (s *Service) attach(x *response.Exchange, sess *session.Session) {
	x.SetValue(sessionKey{}, sess)
	x.SetLogger(x.Logger().With(slog.String("session_id", sess.ID.String())))
}

func (s *Service) queueCookie(x *response.Exchange, sess session.Session) error {
	c, err := s.cookies.Signed(s.cookieName, sess.Token, cookie.WithMaxAge(int(s.sessions.TTL().Seconds())))
	if err != nil {
		return err
	}
	x.State().AddCookie(c)
	return nil
}
