// Package clientip extracts the client IP address from an HTTP request.
//
// Headers are checked in order: CF-Connecting-IP, DO-Connecting-IP,
// X-Forwarded-For (leftmost entry), X-Real-IP, then RemoteAddr. Invalid
// values and 0.0.0.0 are skipped. When nothing valid is found GetIP returns
// the raw RemoteAddr.
package clientip
