// Package server wraps http.Server with environment configuration and a
// graceful shutdown that fits errgroup:
//
//	srv, err := server.NewFromConfig(settings.Server, server.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx, handler))
//	return g.Wait()
//
// TLS is enabled when both SERVER_TLS_CERT_FILE and SERVER_TLS_KEY_FILE are set.
package server
