// Package pg connects to PostgreSQL through a pgx connection pool.
//
//	pool, err := pg.Connect(ctx, pg.Config{ConnectionString: os.Getenv("DATABASE_URL")})
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
// Connect retries with exponential backoff until the first ping succeeds.
// Healthcheck returns a probe function. WithTx and TxFromContext carry a
// transaction through a context so stores can join the caller's transaction.
//
// The psfs session store (core/session.PostgresStore) runs on the returned pool.
package pg
