// Package logging builds the zap logger fx uses for diagnostics on stderr.
package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvLevel overrides the configured log level.
const EnvLevel = "FX_LOG_LEVEL"

// Options controls how the logger renders.
type Options struct {
	Level string
	Color bool
}

// Level returns $FX_LOG_LEVEL when set, else fallback.
func Level(fallback string) string {
	if lvl := strings.TrimSpace(os.Getenv(EnvLevel)); lvl != "" {
		return lvl
	}
	return fallback
}

// New returns a console logger writing to w. Records carry no timestamp so
// that output stays stable across runs.
func New(w zapcore.WriteSyncer, opts Options) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", opts.Level, err)
	}

	encoderConfig := zapcore.EncoderConfig{
		LevelKey:         "level",
		NameKey:          "logger",
		MessageKey:       "msg",
		StacktraceKey:    "stacktrace",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		EncodeName:       zapcore.FullNameEncoder,
		ConsoleSeparator: " ",
	}
	if opts.Color {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.Lock(w), zap.NewAtomicLevelAt(level))
	return zap.New(core).Named("fx"), nil
}

// NewStderr is New on os.Stderr.
func NewStderr(opts Options) (*zap.Logger, error) {
	return New(os.Stderr, opts)
}
