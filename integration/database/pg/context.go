package pg

import (
	"context"

	"github.com/jackc/pgx/v5"
)

type txKey struct{}

// WithTx stores tx in ctx so stores run their queries inside it.
// A nil tx leaves ctx untouched.
func WithTx(ctx context.Context, tx pgx.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFromContext returns the transaction stored by WithTx.
func TxFromContext(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(pgx.Tx)
	return tx, ok
}
