package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/dmitrymomot/psfs/core/failure"
)

// strictHandler turns every warning or error record into a panic carrying a
// runtime-signal failure. It is installed on the exchange logger only while
// routed execution runs in debug mode.
type strictHandler struct {
	inner slog.Handler
}

func (h strictHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= slog.LevelWarn || h.inner.Enabled(ctx, level)
}

func (h strictHandler) Handle(ctx context.Context, rec slog.Record) error {
	var err error
	if h.inner.Enabled(ctx, rec.Level) {
		err = h.inner.Handle(ctx, rec)
	}
	if rec.Level < slog.LevelWarn {
		return err
	}

	f := failure.RuntimeSignal("%s: %s", strings.ToLower(rec.Level.String()), rec.Message)
	if rec.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{rec.PC}).Next()
		f.File, f.Line = filepath.Base(frame.File), frame.Line
	}
	panic(f)
}

func (h strictHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return strictHandler{inner: h.inner.WithAttrs(attrs)}
}

func (h strictHandler) WithGroup(name string) slog.Handler {
	return strictHandler{inner: h.inner.WithGroup(name)}
}

// promote converts a recovered panic value into a failure. In debug mode the
// failure is a runtime signal; otherwise it stays unclassified.
func promote(v any, debug bool) error {
	if f, ok := v.(*failure.Error); ok {
		return f
	}

	kind := failure.KindUnclassified
	if debug {
		kind = failure.KindRuntimeSignal
	}
	var f *failure.Error
	if err, ok := v.(error); ok {
		f = failure.Wrap(kind, err, "panic")
	} else {
		f = failure.New(kind, "panic: %v", v)
	}
	if file, line, ok := panicSite(); ok {
		f.File, f.Line = file, line
	}
	return f
}

// panicSite finds the frame that called panic. Must run inside the deferred recover.
func panicSite() (string, int, bool) {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(3, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	afterPanic := false
	for {
		frame, more := frames.Next()
		if afterPanic && !strings.HasPrefix(frame.Function, "runtime.") {
			return filepath.Base(frame.File), frame.Line, true
		}
		if frame.Function == "runtime.gopanic" {
			afterPanic = true
		}
		if !more {
			return "", 0, false
		}
	}
}

func isAbort(v any) bool {
	err, ok := v.(error)
	return ok && errors.Is(err, http.ErrAbortHandler)
}

