// Package logger provides structured logging utilities built on Go's standard slog package.
//
// New builds a *slog.Logger from functional options:
//
//	log := logger.New(
//		logger.WithDevelopment("psfs"),
//		logger.WithLevel(slog.LevelDebug),
//	)
//
//	log := logger.New(logger.WithProduction("psfs"))
//
// Attribute helpers keep call sites short and nil-safe:
//
//	log.Info("request started",
//		logger.Component("dispatch"),
//		logger.Method(r.Method),
//		logger.URI(r.RequestURI),
//		logger.Error(err), // empty attr when err is nil
//	)
//
// Nop returns a logger that discards all output and is the default for every
// component that accepts a logger option.
package logger
