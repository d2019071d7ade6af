package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

var logLevelNames = map[LogLevel]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

var zerologLevels = map[LogLevel]zerolog.Level{
	LevelDebug: zerolog.DebugLevel,
	LevelInfo:  zerolog.InfoLevel,
	LevelWarn:  zerolog.WarnLevel,
	LevelError: zerolog.ErrorLevel,
}

// New returns a logger writing JSON lines to w.
func New(w io.Writer, level LogLevel) *Logger {
	zl := zerolog.New(w).With().Timestamp().Logger()
	return &Logger{MinLevel: level, out: &zl}
}

// ParseLevel maps "debug", "info", "warn" and "error" to a level. Anything
// else is info.
func ParseLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (lvl LogLevel) String() string {
	if name, ok := logLevelNames[lvl]; ok {
		return name
	}
	return "INFO"
}

// SetLogLevel sets the minimum log level
func (l *Logger) SetLogLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.MinLevel = level
}

// event returns nil when the level is filtered out. A zero Logger writes
// to stderr.
func (l *Logger) event(level LogLevel, component string) *zerolog.Event {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.MinLevel {
		return nil
	}
	if l.out == nil {
		zl := zerolog.New(os.Stderr).With().Timestamp().Logger()
		l.out = &zl
	}

	ev := l.out.WithLevel(zerologLevels[level])
	if component != "" {
		ev = ev.Str("component", component)
	}
	return ev
}

func (l *Logger) log(level LogLevel, component, message string, args ...interface{}) {
	ev := l.event(level, component)
	if ev == nil {
		return
	}
	if len(args) == 0 {
		ev.Msg(message)
		return
	}
	ev.Msgf(message, args...)
}

// Fields logs message with structured fields attached.
func (l *Logger) Fields(level LogLevel, component, message string, fields map[string]interface{}) {
	ev := l.event(level, component)
	if ev == nil {
		return
	}
	ev.Fields(fields).Msg(message)
}

// Debug logs a debug message
func (l *Logger) Debug(component, message string, args ...interface{}) {
	l.log(LevelDebug, component, message, args...)
}

// Info logs an info message
func (l *Logger) Info(component, message string, args ...interface{}) {
	l.log(LevelInfo, component, message, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(component, message string, args ...interface{}) {
	l.log(LevelWarn, component, message, args...)
}

// Error logs an error message
func (l *Logger) Error(component, message string, args ...interface{}) {
	l.log(LevelError, component, message, args...)
}

// Fatal logs an error message and exits
func (l *Logger) Fatal(component, message string, args ...interface{}) {
	l.log(LevelError, component, message, args...)
	os.Exit(1)
}
