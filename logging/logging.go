package logging

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm/logger"
)

// New builds a console logger writing to stderr at the given level
// ("debug", "info", "warn", "error").
func New(level string) (*zap.SugaredLogger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("logging: invalid level %q: %w", level, err)
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Development = false
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC3339)
	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build logger: %w", err)
	}
	return l.Sugar(), nil
}

// Nop returns a logger that discards everything.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.SugaredLogger) *zap.SugaredLogger {
	if l == nil {
		return Nop()
	}
	return l
}

// GORM returns a gorm logger that writes SQL tracing through l. SQL is only
// traced when l is enabled for debug; otherwise only errors are reported, at
// zap's error level so a warn or error threshold keeps them.
func GORM(l *zap.SugaredLogger) logger.Interface {
	l = OrNop(l)
	core := l.Desugar().Core()
	level, at := logger.Silent, zapcore.ErrorLevel
	switch {
	case core.Enabled(zapcore.DebugLevel):
		level, at = logger.Info, zapcore.DebugLevel
	case core.Enabled(zapcore.ErrorLevel):
		level = logger.Error
	}
	std, err := zap.NewStdLogAt(l.Desugar().Named("gorm"), at)
	if err != nil {
		std = zap.NewStdLog(l.Desugar().Named("gorm"))
	}
	return logger.New(
		std,
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  false,
		},
	)
}
