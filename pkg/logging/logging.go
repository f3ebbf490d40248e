// Package logging builds the process logger: the ectologger facade over a zap core.
package logging

import (
	"fmt"

	"github.com/Gobusters/ectologger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger creates the process logger. Level and encoding come from config;
// every log entry is handed to a zap core so output matches our other services.
func NewLogger(level string, pretty bool) (ectologger.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if pretty {
		zapCfg = zap.NewDevelopmentConfig()
	}

	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		zapCfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	zl, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build zap logger: %w", err)
	}

	return ectologger.NewEctoLogger(func(msg ectologger.EctoLogMessage) {
		zl.Info("log", zap.Any("entry", msg))
	}), nil
}
