package cache

import (
	"encoding/hex"
	"net/http"
	"net/textproto"
	"slices"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/dmitrymomot/psfs/core/request"
)

// Dimension contributes an extra component to the request fingerprint,
// for example the authenticated user or the negotiated language.
type Dimension func(r *http.Request) string

// fingerprint builds the canonical string hashed by RequestHash.
// HEAD shares entries with GET.
func (s *Store) fingerprint(r *http.Request) string {
	var b strings.Builder

	method := r.Method
	if method == http.MethodHead {
		method = http.MethodGet
	}
	b.WriteString(method)
	b.WriteByte('\n')
	b.WriteString(request.NormalizePath(r.URL.Path))
	b.WriteByte('\n')
	// Values.Encode sorts by key.
	b.WriteString(r.URL.Query().Encode())

	for _, name := range s.varyHeaders {
		values := slices.Clone(r.Header.Values(name))
		slices.Sort(values)
		b.WriteByte('\n')
		b.WriteString(textproto.CanonicalMIMEHeaderKey(name))
		b.WriteByte(':')
		b.WriteString(strings.Join(values, ","))
	}
	for _, dim := range s.dimensions {
		b.WriteByte('\n')
		b.WriteString(dim(r))
	}
	return b.String()
}

// RequestHash returns the cache location of r: a two-level directory
// path ("ab/cd/") and the full hex digest as name.
func (s *Store) RequestHash(r *http.Request) (path, name string) {
	sum := blake2b.Sum256([]byte(s.fingerprint(r)))
	name = hex.EncodeToString(sum[:])
	return name[0:2] + "/" + name[2:4] + "/", name
}

// DataKey is the body key for a hashed location.
func DataKey(path, name string) string {
	return "json/" + path + name
}

// HeadersKey is the sidecar key holding the header lines for DataKey(path, name).
func HeadersKey(path, name string) string {
	return DataKey(path, name) + ".headers"
}
