package i18n

import "context"

type ctxKey struct{}

// WithContext stores i in ctx.
func WithContext(ctx context.Context, i *I18n) context.Context {
	return context.WithValue(ctx, ctxKey{}, i)
}

// FromContext returns the I18n stored by WithContext.
func FromContext(ctx context.Context) (*I18n, bool) {
	i, ok := ctx.Value(ctxKey{}).(*I18n)
	return i, ok && i != nil
}
