package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/psfs/core/logger"
)

// Check reports whether a dependency is usable.
type Check func(context.Context) error

// Liveness answers "ALIVE" with 200. No dependency checks.
func Liveness() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		write(w, http.StatusOK, "ALIVE")
	})
}

// Readiness runs every check in order and answers "READY", or 503 on the
// first failure.
func Readiness(log *slog.Logger, checks ...Check) http.Handler {
	if log == nil {
		log = logger.Nop()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, check := range checks {
			if err := check(r.Context()); err != nil {
				log.ErrorContext(r.Context(), "readiness check failed", logger.Error(err))
				write(w, http.StatusServiceUnavailable, http.StatusText(http.StatusServiceUnavailable))
				return
			}
		}
		write(w, http.StatusOK, "READY")
	})
}

func write(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
