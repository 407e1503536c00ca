// Package log provides structured logging for the Workbench application,
// backed by logrus. It exposes a small package-level API so callers don't
// need to thread a logger through every constructor.
package log

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var std = NewLogger()

// Logger wraps a logrus logger with the application's defaults.
type Logger struct {
	l *logrus.Logger
}

// Option configures a Logger.
type Option func(*Logger)

// WithOutput directs log output to w instead of stdout.
func WithOutput(w io.Writer) Option {
	return func(lg *Logger) {
		lg.l.SetOutput(w)
	}
}

// NewLogger creates a new Logger writing to stdout with timestamps.
func NewLogger(opts ...Option) *Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	lg := &Logger{l: l}
	for _, opt := range opts {
		opt(lg)
	}
	return lg
}

// SetDebug enables or disables debug-level output on the package logger.
func SetDebug(debug bool) {
	if debug {
		std.l.SetLevel(logrus.DebugLevel)
	} else {
		std.l.SetLevel(logrus.InfoLevel)
	}
}

// SetOutput redirects the package logger's output.
func SetOutput(w io.Writer) {
	std.l.SetOutput(w)
}

// SetDebug enables or disables debug-level output on this logger.
func (lg *Logger) SetDebug(debug bool) {
	if debug {
		lg.l.SetLevel(logrus.DebugLevel)
	} else {
		lg.l.SetLevel(logrus.InfoLevel)
	}
}

// Field is a single structured logging field.
type Field struct {
	Key   string
	Value interface{}
}

// F constructs a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// LogWithFields returns an entry carrying the given fields, on which the
// usual Info/Warn/Error/Debug methods can be called.
func LogWithFields(fields ...Field) *logrus.Entry {
	return std.withFields(fields...)
}

func (lg *Logger) withFields(fields ...Field) *logrus.Entry {
	f := make(logrus.Fields, len(fields))
	for _, field := range fields {
		f[field.Key] = field.Value
	}
	return lg.l.WithFields(f)
}

// WithFields returns an entry carrying the given fields.
func (lg *Logger) WithFields(fields ...Field) *logrus.Entry {
	return lg.withFields(fields...)
}

// Info logs a message at info level
func (lg *Logger) Info(args ...interface{}) { lg.l.Info(args...) }

// Infof logs a formatted message at info level
func (lg *Logger) Infof(format string, args ...interface{}) { lg.l.Infof(format, args...) }

// Warn logs a message at warning level
func (lg *Logger) Warn(args ...interface{}) { lg.l.Warn(args...) }

// Warnf logs a formatted message at warning level
func (lg *Logger) Warnf(format string, args ...interface{}) { lg.l.Warnf(format, args...) }

// Error logs a message at error level
func (lg *Logger) Error(args ...interface{}) { lg.l.Error(args...) }

// Errorf logs a formatted message at error level
func (lg *Logger) Errorf(format string, args ...interface{}) { lg.l.Errorf(format, args...) }

// Debug logs a message at debug level
func (lg *Logger) Debug(args ...interface{}) { lg.l.Debug(args...) }

// Debugf logs a formatted message at debug level
func (lg *Logger) Debugf(format string, args ...interface{}) { lg.l.Debugf(format, args...) }

// Package-level helpers delegating to the default logger

// Info logs a message at info level
func Info(args ...interface{}) { std.Info(args...) }

// Infof logs a formatted message at info level
func Infof(format string, args ...interface{}) { std.Infof(format, args...) }

// Warn logs a message at warning level
func Warn(args ...interface{}) { std.Warn(args...) }

// Warnf logs a formatted message at warning level
func Warnf(format string, args ...interface{}) { std.Warnf(format, args...) }

// Error logs a message at error level
func Error(args ...interface{}) { std.Error(args...) }

// Errorf logs a formatted message at error level
func Errorf(format string, args ...interface{}) { std.Errorf(format, args...) }

// Debug logs a message at debug level
func Debug(args ...interface{}) { std.Debug(args...) }

// Debugf logs a formatted message at debug level
func Debugf(format string, args ...interface{}) { std.Debugf(format, args...) }
