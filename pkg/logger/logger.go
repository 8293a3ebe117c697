// Package logger constructs the structured logger used throughout the
// planning pipeline, built on go.uber.org/zap the same way the rest of the
// ignite/latticemap lineage does.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a *zap.SugaredLogger tagged with the given service name. It
// uses zap's production encoder config with ISO8601 timestamps, suitable for
// both CLI output and structured log shipping.
func New(service string) *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.TimeKey = "ts"

	log, err := cfg.Build()
	if err != nil {
		// A broken encoder configuration is a programming error, not a
		// runtime condition callers can recover from; fall back to a
		// no-op logger so planning can still proceed.
		return zap.NewNop().Sugar()
	}

	return log.Sugar().With("service", service)
}

// NewDevelopment builds a *zap.SugaredLogger with human-readable, colorized
// output, used by the CLI's flag mode.
func NewDevelopment(service string) *zap.SugaredLogger {
	log, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return log.Sugar().With("service", service)
}
