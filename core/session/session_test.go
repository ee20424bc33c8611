package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/psfs/core/session"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("requires ip", func(t *testing.T) {
		t.Parallel()
		_, err := session.New(session.NewSessionParams{}, time.Hour)
		assert.ErrorIs(t, err, session.ErrMissingIP)
	})

	t.Run("fresh session", func(t *testing.T) {
		t.Parallel()
		sess, err := session.New(session.NewSessionParams{IP: "127.0.0.1", UserAgent: "test"}, time.Hour)
		require.NoError(t, err)

		assert.NotEmpty(t, sess.Token)
		assert.Len(t, sess.Token, 43)
		assert.True(t, sess.IsModified())
		assert.False(t, sess.IsExpired())
		assert.False(t, sess.IsDeleted())
		assert.Empty(t, sess.Values)
	})

	t.Run("tokens are unique", func(t *testing.T) {
		t.Parallel()
		a, err := session.New(session.NewSessionParams{IP: "1"}, time.Hour)
		require.NoError(t, err)
		b, err := session.New(session.NewSessionParams{IP: "1"}, time.Hour)
		require.NoError(t, err)
		assert.NotEqual(t, a.Token, b.Token)
		assert.NotEqual(t, a.ID, b.ID)
	})
}

func TestSessionValues(t *testing.T) {
	t.Parallel()

	sess, err := session.New(session.NewSessionParams{IP: "127.0.0.1"}, time.Hour)
	require.NoError(t, err)

	sess.Set("lang", "es_ES")
	v, ok := sess.Get("lang")
	assert.True(t, ok)
	assert.Equal(t, "es_ES", v)

	clone := sess.Clone()
	clone.Set("lang", "en_US")
	v, _ = sess.Get("lang")
	assert.Equal(t, "es_ES", v, "clone has its own values")

	sess.Delete("lang")
	_, ok = sess.Get("lang")
	assert.False(t, ok)

	var zero session.Session
	zero.Set("k", 1)
	v, ok = zero.Get("k")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestSessionLifecycle(t *testing.T) {
	t.Parallel()

	sess, err := session.New(session.NewSessionParams{IP: "127.0.0.1"}, time.Hour)
	require.NoError(t, err)

	id, token := sess.ID, sess.Token
	require.NoError(t, sess.Refresh())
	assert.Equal(t, id, sess.ID)
	assert.NotEqual(t, token, sess.Token)

	sess.Logout()
	assert.True(t, sess.IsDeleted())

	expired, err := session.New(session.NewSessionParams{IP: "127.0.0.1"}, -time.Second)
	require.NoError(t, err)
	assert.True(t, expired.IsExpired())
}
