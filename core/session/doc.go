// Package session provides key/value sessions identified by an opaque token.
//
// A Manager coordinates loading, creating, touching and persisting sessions
// over a Store. Three stores ship with the package: MemoryStore for tests
// and single-process deployments, RedisStore, and PostgresStore (pgx).
//
//	mgr := session.NewManager(session.NewMemoryStore(),
//		session.WithTTL(24*time.Hour),
//		session.WithTouchInterval(5*time.Minute),
//	)
//
//	sess, err := mgr.GetByToken(ctx, token)
//	if err != nil {
//		sess, err = session.New(session.NewSessionParams{IP: ip}, mgr.TTL())
//	}
//	sess.Set("lastRequest", tail)
//	err = mgr.Store(ctx, sess)
//
// Values must be JSON-encodable for the Redis and Postgres stores; after a
// round trip they come back as the generic JSON types.
package session
