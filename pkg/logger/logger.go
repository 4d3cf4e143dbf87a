package logger

import (
	"fmt"
	"log"
	"os"
	"strings"
)

const (
	DEBUG int = iota
	INFO
	WARNING
	ERROR
	SILENCE
)

type Logger interface {
	Debugf(msg string, a ...any)
	Infof(msg string, a ...any)
	Warnf(msg string, a ...any)
	Errorf(msg string, a ...any)

	// With returns a logger which prefixes every message with the given
	// key-value pair.
	With(key string, value any) Logger
}

type defaultLogger struct {
	level  int
	prefix string
	inner  *log.Logger
}

func NewLogger(level int) *defaultLogger {
	return &defaultLogger{
		level: level,
		inner: log.New(os.Stderr, "", log.LstdFlags|log.Lmicroseconds),
	}
}

// ParseLevel converts a level name to its constant. Unknown names fall back
// to INFO.
func ParseLevel(s string) int {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DEBUG
	case "warn", "warning":
		return WARNING
	case "error":
		return ERROR
	case "silence", "silent", "none":
		return SILENCE
	default:
		return INFO
	}
}

func (l *defaultLogger) With(key string, value any) Logger {
	return &defaultLogger{
		level:  l.level,
		prefix: fmt.Sprintf("%s%s=%v ", l.prefix, key, value),
		inner:  l.inner,
	}
}

func (l *defaultLogger) Debugf(msg string, a ...any) {
	l.printf(DEBUG, "DEBUG", msg, a...)
}

func (l *defaultLogger) Infof(msg string, a ...any) {
	l.printf(INFO, "INFO", msg, a...)
}

func (l *defaultLogger) Warnf(msg string, a ...any) {
	l.printf(WARNING, "WARN", msg, a...)
}

func (l *defaultLogger) Errorf(msg string, a ...any) {
	l.printf(ERROR, "ERROR", msg, a...)
}

func (l *defaultLogger) printf(level int, tag, msg string, a ...any) {
	if l.level > level {
		return
	}

	l.inner.Printf("[%s] %s%s", tag, l.prefix, fmt.Sprintf(msg, a...))
}
