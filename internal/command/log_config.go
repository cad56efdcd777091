package command

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joeycumines/survivor/internal/config"
)

// logConfig holds resolved logging configuration for the run command.
type logConfig struct {
	level   slog.Level
	json    bool
	logFile io.WriteCloser // nil logs to stderr
}

// resolveLogConfig resolves log configuration from flags and config.
// Non-empty flag values win; otherwise log.level (with its env override)
// and log.format apply. The caller must Close the returned logFile if it is
// non-nil.
func resolveLogConfig(flagPath, flagLevel, flagFormat string, cfg *config.Config) (logConfig, error) {
	schema := config.DefaultSchema()
	var lc logConfig

	resolve := func(flagValue, key string) string {
		if flagValue != "" || cfg == nil {
			return flagValue
		}
		return schema.Resolve(cfg, key)
	}

	levelStr := resolve(flagLevel, "log.level")
	switch strings.ToLower(levelStr) {
	case "debug":
		lc.level = slog.LevelDebug
	case "info", "":
		lc.level = slog.LevelInfo
	case "warn":
		lc.level = slog.LevelWarn
	case "error":
		lc.level = slog.LevelError
	default:
		return lc, fmt.Errorf("invalid log level: %s", levelStr)
	}

	formatStr := resolve(flagFormat, "log.format")
	switch strings.ToLower(formatStr) {
	case "text", "":
	case "json":
		lc.json = true
	default:
		return lc, fmt.Errorf("invalid log format: %s", formatStr)
	}

	if flagPath != "" {
		f, err := os.OpenFile(flagPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return lc, fmt.Errorf("failed to open log file %s: %w", flagPath, err)
		}
		lc.logFile = f
	}

	return lc, nil
}

// logger builds the slog logger, writing to the log file if one was opened
// and to fallback otherwise.
func (lc logConfig) logger(fallback io.Writer) *slog.Logger {
	w := fallback
	if lc.logFile != nil {
		w = lc.logFile
	}
	opts := &slog.HandlerOptions{Level: lc.level}
	if lc.json {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
