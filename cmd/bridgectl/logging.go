package main

import (
	"flag"
	"log/slog"
	"os"
	"strings"
)

// logFlags selects the CLI log level and format.
type logFlags struct {
	Level  string
	Format string
}

func registerLogFlags(fs *flag.FlagSet) *logFlags {
	lf := &logFlags{}

	fs.StringVar(&lf.Level, "log-level",
		getEnv("BRIDGELINK_LOG_LEVEL", "warn"),
		"Log level: debug, info, warn, error (env: BRIDGELINK_LOG_LEVEL)")

	fs.StringVar(&lf.Format, "log-format",
		getEnv("BRIDGELINK_LOG_FORMAT", "text"),
		"Log format: json, text (env: BRIDGELINK_LOG_FORMAT)")

	return lf
}

// setup installs the configured logger as the process default.
func (l *logFlags) setup() *slog.Logger {
	logger := setupLogger(l.Level, l.Format)
	slog.SetDefault(logger)
	return logger
}

// setupLogger builds the CLI logger. Logs go to stderr so command output
// stays clean on stdout.
func setupLogger(level, format string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelWarn
	}

	opts := &slog.HandlerOptions{
		Level:     logLevel,
		AddSource: logLevel == slog.LevelDebug,
	}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	default:
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(handler).With("service", appName)
}
