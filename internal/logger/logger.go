// Package logger wraps logrus behind a small printf-style API with three
// verbosity levels. Child loggers made with WithField share their parent's
// level and output.
package logger

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// Level is the verbosity threshold.
type Level int

const (
	LevelOff     Level = iota // nothing is written
	LevelNormal               // info and above
	LevelVerbose              // debug and above
)

// Logger is safe for concurrent use.
type Logger struct {
	mu    *sync.RWMutex
	level *Level
	out   io.Writer
	base  *logrus.Logger
	entry *logrus.Entry
}

// New returns a logger writing plain text lines to out (stderr when nil).
func New(level Level, out io.Writer) *Logger {
	if out == nil {
		out = os.Stderr
	}

	base := logrus.New()
	base.SetOutput(out)
	base.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "15:04:05",
	})

	l := &Logger{
		mu:    &sync.RWMutex{},
		level: new(Level),
		out:   out,
		base:  base,
		entry: logrus.NewEntry(base),
	}
	l.SetLevel(level)
	return l
}

// SetLevel changes the log level at runtime. Child loggers follow.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.level = level

	switch level {
	case LevelOff:
		l.base.SetOutput(io.Discard)
		l.base.SetLevel(logrus.PanicLevel)
	case LevelVerbose:
		l.base.SetOutput(l.out)
		l.base.SetLevel(logrus.DebugLevel)
	default:
		l.base.SetOutput(l.out)
		l.base.SetLevel(logrus.InfoLevel)
	}
}

// GetLevel reports the threshold shared by this logger and its children.
func (l *Logger) GetLevel() Level {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return *l.level
}

// WithField returns a child logger that tags every line with key=value.
func (l *Logger) WithField(key string, value any) *Logger {
	return &Logger{
		mu:    l.mu,
		level: l.level,
		out:   l.out,
		base:  l.base,
		entry: l.entry.WithField(key, value),
	}
}

// Debug is only written at LevelVerbose.
func (l *Logger) Debug(format string, args ...any) {
	l.entry.Debugf(format, args...)
}

func (l *Logger) Info(format string, args ...any) {
	l.entry.Infof(format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.entry.Warnf(format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.entry.Errorf(format, args...)
}
