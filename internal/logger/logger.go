package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	sugar *zap.SugaredLogger
	once  sync.Once
)

// Init builds the process-wide zap logger. Safe to call more than once;
// only the first call wins.
func Init(level string) {
	once.Do(func() {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		l, err := cfg.Build(zap.AddCallerSkip(1))
		if err != nil {
			l = zap.NewNop()
		}
		sugar = l.Sugar()
	})
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func l() *zap.SugaredLogger {
	if sugar == nil {
		Init("info")
	}
	return sugar
}

func Debug(msg string, kv ...interface{}) { l().Debugw(msg, kv...) }

func Info(msg string, kv ...interface{}) { l().Infow(msg, kv...) }

func Warn(msg string, kv ...interface{}) { l().Warnw(msg, kv...) }

func Error(msg string, kv ...interface{}) { l().Errorw(msg, kv...) }

func Fatal(msg string, kv ...interface{}) { l().Fatalw(msg, kv...) }

// Sync flushes buffered log entries. Called on shutdown.
func Sync() {
	if sugar != nil {
		_ = sugar.Sync()
	}
}
