// Package response owns per-request response state and the single-pass
// emission discipline: headers once, cache write before the body, then the
// close sequence.
//
// An Emitter is built once per process with its collaborators (cache store,
// session recorder, logger). For every request it creates an Exchange, which
// handlers receive and finish with one of Output, Response, RenderCache or
// Download:
//
//	emitter := response.NewEmitter(
//		response.WithPoweredBy("PSFS"),
//		response.WithCache(store),
//		response.WithSessionRecorder(sec),
//	)
//
//	x := emitter.Exchange(w, r)
//	x.State().SetStatus(http.StatusNotFound)
//	err := x.Output([]byte("<h1>missing</h1>"), "text/html")
//
// Every entry point ends with Close, which records the SessionTail under
// "lastRequest", persists the session and marks the exchange terminated.
// Close is idempotent; emission after termination returns ErrTerminated.
//
// Compose and Assemble are pure: they build the status, the ordered header
// lines and the body without touching the transport.
package response
