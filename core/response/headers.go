package response

import (
	"net/http"
	"strconv"
	"strings"
)

// Header names used by the emitter.
const (
	HeaderPoweredBy          = "X-Powered-By"
	HeaderCached             = "X-Psfs-Cached"
	HeaderContentType        = "Content-Type"
	HeaderContentLength      = "Content-Length"
	HeaderContentDisposition = "Content-Disposition"
	HeaderCacheControl       = "Cache-Control"
	HeaderPragma             = "Pragma"
	HeaderVary               = "Vary"
	HeaderSetCookie          = "Set-Cookie"
)

// Header is one outbound header line.
type Header struct {
	Name  string
	Value string
}

// String renders the line as "Name: value".
func (h Header) String() string {
	return h.Name + ": " + h.Value
}

// ParseHeader splits a "Name: value" line.
func ParseHeader(line string) (Header, bool) {
	name, value, ok := strings.Cut(line, ":")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return Header{}, false
	}
	return Header{Name: name, Value: strings.TrimSpace(value)}, true
}

// HeaderSet is the assembled status and ordered header lines.
type HeaderSet struct {
	Status int
	Lines  []Header
}

// Strings returns the lines as "Name: value" strings.
func (hs HeaderSet) Strings() []string {
	out := make([]string, 0, len(hs.Lines))
	for _, h := range hs.Lines {
		out = append(out, h.String())
	}
	return out
}

// Get returns the values of every line named name, in order.
func (hs HeaderSet) Get(name string) []string {
	var out []string
	for _, h := range hs.Lines {
		if strings.EqualFold(h.Name, name) {
			out = append(out, h.Value)
		}
	}
	return out
}

// Assemble builds the header set for st in emission order:
// identification, status, private-zone headers, cookies, content type.
func Assemble(st State, poweredBy string) HeaderSet {
	hs := HeaderSet{Status: st.Status}
	if !IsMapped(hs.Status) {
		hs.Status = http.StatusOK
	}

	hs.Lines = append(hs.Lines, Header{HeaderPoweredBy, poweredBy})

	if !st.PublicZone {
		hs.Lines = append(hs.Lines,
			Header{HeaderCacheControl, "private, no-cache, no-store, must-revalidate"},
			Header{HeaderPragma, "no-cache"},
			Header{HeaderVary, "Cookie"},
		)
	}

	for _, c := range st.Cookies {
		if v := c.String(); v != "" {
			hs.Lines = append(hs.Lines, Header{HeaderSetCookie, v})
		}
	}

	contentType := st.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}
	hs.Lines = append(hs.Lines, Header{HeaderContentType, contentType})
	return hs
}

func contentLength(body []byte) Header {
	return Header{HeaderContentLength, strconv.Itoa(len(body))}
}
