package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger backs the Logger interface with a zap.SugaredLogger
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger builds a production (JSON) or development (console) zap logger
func NewZapLogger(level string, development bool) (*ZapLogger, error) {
	var cfg zap.Config
	if development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(zapLevel(ParseLevel(level)))

	base, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("failed to build zap logger: %w", err)
	}
	return &ZapLogger{sugar: base.Sugar()}, nil
}

// NewZapLoggerFrom wraps an existing zap logger
func NewZapLoggerFrom(base *zap.Logger) *ZapLogger {
	if base == nil {
		base = zap.NewNop()
	}
	return &ZapLogger{sugar: base.Sugar()}
}

func zapLevel(l Level) zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func (z *ZapLogger) Debug(msg string, fields ...interface{}) {
	z.sugar.Debugw(msg, normalizeFields(fields)...)
}

func (z *ZapLogger) Info(msg string, fields ...interface{}) {
	z.sugar.Infow(msg, normalizeFields(fields)...)
}

func (z *ZapLogger) Warn(msg string, fields ...interface{}) {
	z.sugar.Warnw(msg, normalizeFields(fields)...)
}

func (z *ZapLogger) Error(msg string, fields ...interface{}) {
	z.sugar.Errorw(msg, normalizeFields(fields)...)
}

// Sync flushes buffered entries
func (z *ZapLogger) Sync() error {
	return z.sugar.Sync()
}

// normalizeFields rewrites malformed key/value lists the same way the JSON
// logger does, so zap never logs its "Ignored key without a value" errors.
func normalizeFields(fields []interface{}) []interface{} {
	if len(fields) == 0 {
		return nil
	}
	m := fieldsToMap(fields)
	out := make([]interface{}, 0, len(m)*2)
	for k, v := range m {
		out = append(out, k, v)
	}
	return out
}

// New returns the configured logger: zap when it can be built, otherwise the
// JSON default logger at the same level.
func New(level string, development bool) Logger {
	z, err := NewZapLogger(level, development)
	if err != nil {
		fallback := NewLeveledLogger(ParseLevel(level))
		fallback.Warn("Falling back to default logger", "error", err.Error())
		return fallback
	}
	return z
}
