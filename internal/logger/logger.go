package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel accepts debug, info, warn/warning and error, case-insensitively.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

type Logger struct {
	level Level
	debug *log.Logger
	info  *log.Logger
	warn  *log.Logger
	error *log.Logger
}

func New(level Level) *Logger {
	return &Logger{
		level: level,
		debug: log.New(os.Stdout, "DEBUG: ", log.Ldate|log.Ltime),
		info:  log.New(os.Stdout, "INFO: ", log.Ldate|log.Ltime),
		warn:  log.New(os.Stderr, "WARN: ", log.Ldate|log.Ltime),
		error: log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime),
	}
}

func NewWithWriter(writer io.Writer, level Level) *Logger {
	return &Logger{
		level: level,
		debug: log.New(writer, "DEBUG: ", log.Ldate|log.Ltime),
		info:  log.New(writer, "INFO: ", log.Ldate|log.Ltime),
		warn:  log.New(writer, "WARN: ", log.Ldate|log.Ltime),
		error: log.New(writer, "ERROR: ", log.Ldate|log.Ltime),
	}
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *Logger {
	return NewWithWriter(io.Discard, LevelError)
}

func (l *Logger) Enabled(level Level) bool {
	return level >= l.level
}

func (l *Logger) Debug(v ...interface{}) {
	if l.Enabled(LevelDebug) {
		l.debug.Println(v...)
	}
}

func (l *Logger) Debugf(format string, v ...interface{}) {
	if l.Enabled(LevelDebug) {
		l.debug.Printf(format, v...)
	}
}

func (l *Logger) Info(v ...interface{}) {
	if l.Enabled(LevelInfo) {
		l.info.Println(v...)
	}
}

func (l *Logger) Infof(format string, v ...interface{}) {
	if l.Enabled(LevelInfo) {
		l.info.Printf(format, v...)
	}
}

func (l *Logger) Warn(v ...interface{}) {
	if l.Enabled(LevelWarn) {
		l.warn.Println(v...)
	}
}

func (l *Logger) Warnf(format string, v ...interface{}) {
	if l.Enabled(LevelWarn) {
		l.warn.Printf(format, v...)
	}
}

func (l *Logger) Error(v ...interface{}) {
	l.error.Println(v...)
}

func (l *Logger) Errorf(format string, v ...interface{}) {
	l.error.Printf(format, v...)
}
