// Package logging is the module's structured logging layer, built on
// go.uber.org/zap instead of the teacher's hand-rolled log.Logger wrapper
// (pkg/monitoring/logger.go), but keeping the same shape: a LogLevel enum,
// a With-style field accumulator, per-level methods, and a process-wide
// global logger.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level mirrors the teacher's LogLevel enum, translated to zap's levels.
type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case Debug:
		return zapcore.DebugLevel
	case Warn:
		return zapcore.WarnLevel
	case Error:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Logger wraps a zap.SugaredLogger, exposing the teacher's Debug/Info/
// Warn/Error/Fatal method set with variadic structured key-value pairs.
type Logger struct {
	sugar *zap.SugaredLogger
}

// New builds a production-style JSON logger at the given minimum level,
// writing to stderr.
func New(level Level) *Logger {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(cfg),
		zapcore.Lock(os.Stderr),
		level.zapLevel(),
	)
	return &Logger{sugar: zap.New(core).Sugar()}
}

// With returns a derived logger carrying additional structured fields on
// every subsequent call, mirroring the teacher's WithField/WithFields.
func (l *Logger) With(keyValues ...interface{}) *Logger {
	return &Logger{sugar: l.sugar.With(keyValues...)}
}

func (l *Logger) Debug(msg string, keyValues ...interface{}) { l.sugar.Debugw(msg, keyValues...) }
func (l *Logger) Info(msg string, keyValues ...interface{})  { l.sugar.Infow(msg, keyValues...) }
func (l *Logger) Warn(msg string, keyValues ...interface{})  { l.sugar.Warnw(msg, keyValues...) }
func (l *Logger) Error(msg string, keyValues ...interface{}) { l.sugar.Errorw(msg, keyValues...) }
func (l *Logger) Fatal(msg string, keyValues ...interface{}) { l.sugar.Fatalw(msg, keyValues...) }

// Sync flushes any buffered log entries; callers should defer it from
// main.
func (l *Logger) Sync() error {
	return l.sugar.Sync()
}

var global = New(Info)

// SetGlobalLevel replaces the process-wide logger with one at the given
// level.
func SetGlobalLevel(level Level) {
	global = New(level)
}

// Global returns the process-wide logger.
func Global() *Logger { return global }
