// Package health provides liveness and readiness probe handlers that are
// mounted next to the dispatcher, outside the request core:
//
//	mux.Handle("/health/live", health.Liveness())
//	mux.Handle("/health/ready", health.Readiness(log,
//		redis.Healthcheck(rdb),
//		pg.Healthcheck(pool),
//	))
package health
