// Package logging builds the launcher's leveled logger. Defaults can be
// overridden through DEVLAUNCH_LOG_* environment variables.
package logging

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

const (
	EnvLogLevel     = "DEVLAUNCH_LOG_LEVEL"
	EnvLogTimestamp = "DEVLAUNCH_LOG_TIMESTAMP"
)

// Config controls logger construction.
type Config struct {
	Level     log.Level
	Timestamp bool
	Prefix    string
}

// DefaultConfig returns info-level logging without timestamps.
func DefaultConfig() Config {
	return Config{Level: log.InfoLevel, Prefix: "devlaunch"}
}

// FromEnv returns DefaultConfig with environment overrides applied.
func FromEnv() Config {
	cfg := DefaultConfig()
	applyEnvOverrides(&cfg)
	return cfg
}

// New returns a logger writing to w.
func New(w io.Writer, cfg Config) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           cfg.Level,
		ReportTimestamp: cfg.Timestamp,
		Prefix:          cfg.Prefix,
	})
}

// Discard returns a logger that drops everything, for tests.
func Discard() *log.Logger {
	return New(io.Discard, DefaultConfig())
}

func applyEnvOverrides(cfg *Config) {
	if lvl, ok := parseLevel(os.Getenv(EnvLogLevel)); ok {
		cfg.Level = lvl
	}
	if v, ok := parseBool(os.Getenv(EnvLogTimestamp)); ok {
		cfg.Timestamp = v
	}
}

func parseLevel(raw string) (log.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return log.InfoLevel, false
	case "debug", "trace":
		return log.DebugLevel, true
	case "info":
		return log.InfoLevel, true
	case "warn", "warning":
		return log.WarnLevel, true
	case "error":
		return log.ErrorLevel, true
	case "fatal", "off", "none", "disabled":
		return log.FatalLevel, true
	default:
		return log.InfoLevel, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
