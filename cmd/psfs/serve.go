package main

import (
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/psfs/core/logger"
	"github.com/dmitrymomot/psfs/core/server"
)

var (
	serveAddr     string
	sweepInterval time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server in front of the request dispatcher.

Besides the application routes the server exposes /metrics, /health/live
and /health/ready. Expired sessions and cache entries are swept in the
background.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides SERVER_ADDR)")
	serveCmd.Flags().DurationVar(&sweepInterval, "sweep-interval", 10*time.Minute, "Interval between expiry sweeps, 0 disables them")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		settings.Server.Addr = serveAddr
	}

	ctx := cmd.Context()
	a, err := newApp(ctx, settings)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			a.log.Error("shutdown cleanup failed", logger.Error(err))
		}
	}()

	srv, err := server.NewFromConfig(settings.Server,
		server.WithLogger(a.log.With(logger.Component("server"))),
	)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(srv.Run(ctx, a.handler))
	g.Go(func() error { return a.sweep(ctx, sweepInterval) })
	return g.Wait()
}
