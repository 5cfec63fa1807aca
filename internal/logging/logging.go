// Package logging builds the zap loggers shared by every frontdesk component.
package logging

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/example/frontdesk/internal/config"
	"github.com/example/frontdesk/internal/ctxutil"
)

// New builds a logger from the logging section of the config.
// Production config emits JSON; development config emits console lines.
func New(cfg config.LoggingConfig, verbose bool) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// ForContext returns log annotated with the caller carried by ctx, if any.
func ForContext(ctx context.Context, log *zap.Logger) *zap.Logger {
	caller := ctxutil.CallerFromContext(ctx)
	if caller.SessionID == "" {
		return log
	}
	fields := []zap.Field{zap.String("session_id", caller.SessionID)}
	if caller.PhoneNumber != "" {
		fields = append(fields, zap.String("phone_number", caller.PhoneNumber))
	}
	return log.With(fields...)
}
