// Package redis connects the shared go-redis client used by the Redis cache
// backend and the Redis session store.
//
//	rdb, err := redis.Connect(ctx, redis.Config{ConnectionURL: "redis://localhost:6379/0"})
//	if err != nil {
//		return err
//	}
//	defer rdb.Close()
//
// Connect pings the server until it answers, doubling the wait between
// attempts. Healthcheck returns a probe for the readiness endpoint.
package redis
