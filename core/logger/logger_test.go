package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/psfs/core/logger"
)

type ctxKey struct{}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("json output with service attrs", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.WithProduction("psfs"), logger.WithOutput(&buf))
		log.Info("hello", logger.Component("dispatch"))

		var rec map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		assert.Equal(t, "hello", rec["msg"])
		assert.Equal(t, "psfs", rec["service"])
		assert.Equal(t, "dispatch", rec["component"])
	})

	t.Run("level filters records", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf), logger.WithLevel(slog.LevelWarn))
		log.Info("dropped")
		assert.Empty(t, buf.String())
		log.Warn("kept")
		assert.Contains(t, buf.String(), "kept")
	})

	t.Run("context extractors add attributes", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(
			logger.WithOutput(&buf),
			logger.WithJSONFormatter(),
			logger.WithContextExtractors(func(ctx context.Context) (slog.Attr, bool) {
				id, ok := ctx.Value(ctxKey{}).(string)
				if !ok {
					return slog.Attr{}, false
				}
				return logger.RequestID(id), true
			}),
		)
		ctx := context.WithValue(context.Background(), ctxKey{}, "req-1")
		log.InfoContext(ctx, "with id")

		var rec map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		assert.Equal(t, "req-1", rec["request_id"])
	})
}

func TestAttrs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.Attr{}, logger.Error(nil))
	assert.Equal(t, "error", logger.Error(errors.New("x")).Key)
	assert.Equal(t, slog.Attr{}, logger.Errors(nil, nil))
	assert.Equal(t, "errors", logger.Errors(nil, errors.New("x")).Key)
	assert.Equal(t, slog.Attr{}, logger.RequestID(""))
	assert.Equal(t, slog.Attr{}, logger.CacheKey(""))
	assert.Equal(t, "dispatcher.go:42", logger.Source("dispatcher.go", 42).Value.String())
	assert.Equal(t, slog.Attr{}, logger.Source("", 0))
}
