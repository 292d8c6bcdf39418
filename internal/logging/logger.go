// Package logging builds the zap logger shared by all commands.
package logging

import (
	"fmt"
	"os"
	"strings"

	"github.com/rcforge/fileenum/internal/branding"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultLevel keeps normal runs quiet; only warnings and errors are shown.
const DefaultLevel = zapcore.WarnLevel

// EnvLogLevel returns the environment variable that overrides the log level.
func EnvLogLevel() string {
	return branding.EnvVar("LOG_LEVEL")
}

// Options controls logger construction.
type Options struct {
	Verbose bool   // force debug level
	Level   string // level name from config; empty uses DefaultLevel
}

// New builds a console logger writing to stderr. Precedence for the level is
// Verbose, then the LOG_LEVEL environment variable, then Options.Level.
func New(opts Options) (*zap.Logger, error) {
	level, err := resolveLevel(opts)
	if err != nil {
		return nil, err
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.DisableCaller = true
	config.DisableStacktrace = true
	config.Sampling = nil

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger.Named(branding.CLIName()), nil
}

func resolveLevel(opts Options) (zapcore.Level, error) {
	if opts.Verbose {
		return zapcore.DebugLevel, nil
	}
	if env := strings.TrimSpace(os.Getenv(EnvLogLevel())); env != "" {
		return ParseLevel(env)
	}
	if opts.Level != "" {
		return ParseLevel(opts.Level)
	}
	return DefaultLevel, nil
}

// ParseLevel converts a level name such as "debug" or "WARN" to a zap level.
func ParseLevel(s string) (zapcore.Level, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return DefaultLevel, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}
