package response

import (
	"net/http"
	"strconv"
)

var statusText = map[int]string{
	http.StatusOK:                  "OK",
	http.StatusBadRequest:          "Bad Request",
	http.StatusUnauthorized:        "Unauthorized",
	http.StatusPaymentRequired:     "Payment Required",
	http.StatusForbidden:           "Forbidden",
	http.StatusNotFound:            "Not Found",
	http.StatusInternalServerError: "Internal Server Error",
}

// StatusLine returns the status line for a mapped code, e.g. "HTTP/1.0 404 Not Found".
func StatusLine(code int) (string, bool) {
	text, ok := statusText[code]
	if !ok {
		return "", false
	}
	return "HTTP/1.0 " + strconv.Itoa(code) + " " + text, true
}

// IsMapped reports whether code is a status the emitter knows.
func IsMapped(code int) bool {
	_, ok := statusText[code]
	return ok
}
