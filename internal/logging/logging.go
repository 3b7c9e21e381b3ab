// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the process-wide zap logger.
package logging

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a production zap logger writing JSON to stderr. When verbose
// is set the level drops to debug so per-record skips become visible.
func New(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}

// OrNop returns l, or a no-op logger when l is nil. Components accept a
// nil logger so tests can skip wiring one.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

// WithRun tags l with a fresh run_id so every line of one pipeline
// invocation can be correlated.
func WithRun(l *zap.Logger) (*zap.Logger, string) {
	id := uuid.NewString()
	return OrNop(l).With(zap.String("run_id", id)), id
}
