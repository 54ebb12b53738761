// Package applog builds the process-wide structured logger.
package applog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls logger construction.
type Options struct {
	// Debug enables verbose logging: debug-level output and development
	// (human-friendly, stack-trace-on-warn) encoding. Mirrors the
	// configuration's debug_mode flag (see SPEC_FULL.md's supplemented
	// features).
	Debug bool
}

// New builds a *zap.Logger per Options. Production mode uses JSON encoding
// at info level; debug mode uses zap's human-readable development encoder
// at debug level.
func New(opts Options) (*zap.Logger, error) {
	if opts.Debug {
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		return cfg.Build()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	return cfg.Build()
}
