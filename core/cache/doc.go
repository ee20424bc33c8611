// Package cache implements the response cache used by the output emitter and
// the dispatcher's replay step.
//
// A Store decides whether a request is cache-eligible, derives its fingerprint,
// and reads or writes entries through a pluggable Backend. Each cached response
// is two keys: the body under "json/<path><name>" and a ".headers" sidecar
// holding a JSON array of "Name: value" lines.
//
//	backend := cache.NewMemoryBackend(1024)
//	store := cache.NewStore(backend,
//		cache.WithEnabled(true),
//		cache.WithDefaultTTL(5*time.Minute),
//		cache.WithAdminPrefix("/admin"),
//	)
//
//	if ttl, ok := store.NeedCache(r); ok {
//		path, name := store.RequestHash(r)
//		_ = store.StoreData(ctx, cache.DataKey(path, name), body, cache.FormatText, ttl)
//	}
//
// Backends: memory (LRU), filesystem (optionally zstd-compressed), Redis,
// SQLite and S3. All are safe for concurrent use; concurrent writers of the
// same key resolve as last writer wins.
//
// The generic LRUCache used by the memory backend is exported for reuse:
//
//	c := cache.NewLRUCache[string, []byte](100)
//	c.SetEvictCallback(func(key string, _ []byte) { log.Println("evicted", key) })
//	c.Put("a", []byte("1"))
package cache
