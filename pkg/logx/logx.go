// Package logx is the process-wide leveled logger. It keeps a printf-style API and
// writes structured output through zap.
package logx

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level int8

const (
	LevelDebug Level = iota - 1
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps a config string to a Level, defaulting to info
func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l Level) zapLevel() zapcore.Level {
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

var (
	mu    sync.RWMutex
	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	base  = newLogger("console")
)

func newLogger(format string) *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	if format == "json" {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, zapcore.Lock(os.Stdout), level)
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
}

// SetLevel changes the minimum level at runtime
func SetLevel(l Level) {
	level.SetLevel(l.zapLevel())
}

// SetFormat switches between "console" and "json" output
func SetFormat(format string) {
	mu.Lock()
	defer mu.Unlock()
	base = newLogger(format)
}

// Use replaces the underlying logger, e.g. with zaptest.NewLogger in tests
func Use(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	base = l.WithOptions(zap.AddCallerSkip(1))
}

// Sync flushes buffered entries
func Sync() {
	_ = sugar().Sync()
}

func sugar() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return base.Sugar()
}

// With returns a structured logger carrying the given key/value pairs
func With(keysAndValues ...any) *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return base.WithOptions(zap.AddCallerSkip(-1)).Sugar().With(keysAndValues...)
}

func Debug(args ...any)                 { sugar().Debug(args...) }
func Debugf(format string, args ...any) { sugar().Debugf(format, args...) }
func Info(args ...any)                  { sugar().Info(args...) }
func Infof(format string, args ...any)  { sugar().Infof(format, args...) }
func Warn(args ...any)                  { sugar().Warn(args...) }
func Warnf(format string, args ...any)  { sugar().Warnf(format, args...) }
func Error(args ...any)                 { sugar().Error(args...) }
func Errorf(format string, args ...any) { sugar().Errorf(format, args...) }
func Fatalf(format string, args ...any) { sugar().Fatalf(format, args...) }
