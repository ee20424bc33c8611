package server_test

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/psfs/core/server"
)

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	_, err := server.NewFromConfig(server.Config{})
	assert.ErrorIs(t, err, server.ErrMissingAddress)

	_, err = server.NewFromConfig(server.Config{Addr: ":0", TLSCertFile: "missing.crt", TLSKeyFile: "missing.key"})
	assert.ErrorIs(t, err, server.ErrFailedLoadCert)

	srv, err := server.NewFromConfig(server.Config{Addr: "127.0.0.1:0", ShutdownTimeout: time.Second})
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:0", srv.Addr())
}

func TestRun(t *testing.T) {
	t.Parallel()

	srv := server.New("127.0.0.1:0", server.WithShutdownTimeout(time.Second))
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "pong")
	})

	ctx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Run(gctx, handler))

	var addr string
	require.Eventually(t, func() bool {
		addr = srv.Addr()
		return addr != "127.0.0.1:0"
	}, 2*time.Second, 10*time.Millisecond)

	resp, err := http.Get("http://" + addr + "/ping")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, "pong", string(body))

	assert.ErrorIs(t, srv.Start(ctx, handler), server.ErrServerAlreadyRunning)

	cancel()
	require.NoError(t, g.Wait())
	assert.NoError(t, srv.Stop(), "stopping a stopped server is a no-op")
}
