// Package dispatch is the entry point of every request. The Dispatcher
// gates on configuration, short-circuits static files, replays cached
// responses, runs the router and classifies failures into one of three
// terminal pages. Every path ends in exactly one close of the exchange.
//
//	d, err := dispatch.New(rt, params, sec, emitter,
//		dispatch.WithCache(store),
//		dispatch.WithLocaleDir(settings.LocaleDir()),
//		dispatch.WithLogger(log),
//	)
//	srv.Start(ctx, d)
package dispatch
