// Package logging constructs the zap loggers used across the engines.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a production logger, or a development logger with debug
// output when verbose is set.
func New(verbose bool) (*zap.Logger, error) {
	if verbose {
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		return cfg.Build()
	}
	return zap.NewProduction()
}

// NewNop returns a logger that discards everything. Engine constructors
// fall back to it when callers pass nil.
func NewNop() *zap.Logger {
	return zap.NewNop()
}
