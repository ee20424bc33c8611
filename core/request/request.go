// Package request holds the immutable per-request facts the dispatcher and
// the output emitter read: URI, script path, method, static-file flag and the
// start timestamp.
package request

import (
	"context"
	"net/http"
	"path"
	"regexp"
	"strings"
	"time"
)

// fileExtension matches script paths that point at a static asset.
var fileExtension = regexp.MustCompile(`\.[a-zA-Z0-9]{2,5}$`)

// Info is the read-only view of an inbound request.
type Info struct {
	RequestURI string
	ScriptURL  string
	Method     string
	Scheme     string
	Host       string
	IsFile     bool
	StartedAt  time.Time
}

// New builds Info from r. The script path is cleaned and always starts with "/".
func New(r *http.Request) Info {
	// RequestURI may be absolute for proxy-style requests; the URL form is always origin-form.
	uri := r.URL.RequestURI()
	script := NormalizePath(r.URL.Path)

	return Info{
		RequestURI: uri,
		ScriptURL:  script,
		Method:     r.Method,
		Scheme:     scheme(r),
		Host:       r.Host,
		IsFile:     fileExtension.MatchString(script),
		StartedAt:  time.Now(),
	}
}

// NormalizePath cleans p and guarantees a leading slash.
// A trailing slash is kept so "/admin/" and "/admin" stay distinguishable to the router.
func NormalizePath(p string) string {
	if p == "" {
		return "/"
	}
	trailing := strings.HasSuffix(p, "/") && len(p) > 1
	p = path.Clean("/" + p)
	if trailing && p != "/" {
		p += "/"
	}
	return p
}

// RootURL returns scheme://host.
func (i Info) RootURL() string {
	return i.Scheme + "://" + i.Host
}

// AbsoluteURL returns the full URL of the request.
func (i Info) AbsoluteURL() string {
	return i.RootURL() + i.RequestURI
}

func scheme(r *http.Request) string {
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		return strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0]))
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

type infoKey struct{}

// WithInfo stores info in ctx.
func WithInfo(ctx context.Context, info Info) context.Context {
	return context.WithValue(ctx, infoKey{}, info)
}

// FromContext returns the Info stored by WithInfo.
func FromContext(ctx context.Context) (Info, bool) {
	info, ok := ctx.Value(infoKey{}).(Info)
	return info, ok
}
