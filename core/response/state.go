package response

import "net/http"

const defaultContentType = "text/html"

// State is the mutable response state of one request.
type State struct {
	Status      int
	ContentType string
	Body        []byte
	Cookies     []*http.Cookie
	// PublicZone suppresses private caching headers when true.
	PublicZone bool
	Debug      bool
}

// NewState returns the defaults: 200, text/html, public zone.
func NewState(debug bool) State {
	return State{
		Status:      http.StatusOK,
		ContentType: defaultContentType,
		PublicZone:  true,
		Debug:       debug,
	}
}

// SetStatus applies code if it is one of the mapped statuses and reports
// whether it did. Unmapped codes leave the current status untouched.
func (s *State) SetStatus(code int) bool {
	if _, ok := statusText[code]; !ok {
		return false
	}
	s.Status = code
	return true
}

// SetPublicZone marks the response public (true) or private (false).
func (s *State) SetPublicZone(public bool) {
	s.PublicZone = public
}

// AddCookie queues a cookie for the Set-Cookie lines.
func (s *State) AddCookie(c *http.Cookie) {
	if c != nil {
		s.Cookies = append(s.Cookies, c)
	}
}
