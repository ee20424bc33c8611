package main

import (
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/psfs/core/config"
	"github.com/dmitrymomot/psfs/core/logger"
)

var baseDir string

var rootCmd = &cobra.Command{
	Use:           "psfs",
	Short:         "PSFS request core",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseDir, "base-dir", "", "Application base directory (overrides BASE_DIR)")
}

func loadSettings() (config.Settings, error) {
	var s config.Settings
	if err := config.Load(&s); err != nil {
		return s, err
	}
	if baseDir != "" {
		s.BaseDir = baseDir
	}
	return s, nil
}

func newLogger(s config.Settings) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	if s.Debug {
		level = slog.LevelDebug
	}

	opts := []logger.Option{
		logger.WithLevel(level),
		logger.WithAttr(slog.String("service", s.AppName)),
	}
	if strings.EqualFold(s.LogFormat, "json") {
		opts = append(opts, logger.WithJSONFormatter())
	}
	return logger.New(opts...)
}
