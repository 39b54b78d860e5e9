package logging

import (
	"fmt"
	"io"
	"log"
	"maps"
	"os"
	"sort"
	"strings"
)

// Level represents log levels
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a level name to a Level, defaulting to InfoLevel
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return DebugLevel
	case "WARN", "WARNING":
		return WarnLevel
	case "ERROR":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Fields represents structured logging fields
type Fields map[string]any

// Logger is the leveled, structured logger used across the server
type Logger interface {
	Debug(msg string, fields ...Fields)
	Info(msg string, fields ...Fields)
	Warn(msg string, fields ...Fields)
	Error(err error, msg string, fields ...Fields)

	// WithFields returns a logger with preset fields
	WithFields(fields Fields) Logger
}

// DefaultLogger writes through the standard log package.
// It must never write to stdout while the MCP stdio transport is active.
type DefaultLogger struct {
	out    *log.Logger
	level  Level
	fields Fields
}

// New creates a logger writing to w at the given level
func New(w io.Writer, level Level) *DefaultLogger {
	return &DefaultLogger{
		out:    log.New(w, "", log.LstdFlags),
		level:  level,
		fields: make(Fields),
	}
}

// NewStderr creates a logger on stderr
func NewStderr(level Level) *DefaultLogger {
	return New(os.Stderr, level)
}

func (d *DefaultLogger) format(level Level, err error, msg string, fields ...Fields) string {
	all := make(Fields)
	maps.Copy(all, d.fields)
	for _, f := range fields {
		maps.Copy(all, f)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", level, msg)
	if err != nil {
		fmt.Fprintf(&b, ": %v", err)
	}

	// sorted keys keep lines stable for grepping and tests
	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, all[k])
	}
	return b.String()
}

func (d *DefaultLogger) log(level Level, err error, msg string, fields ...Fields) {
	if level < d.level {
		return
	}
	d.out.Println(d.format(level, err, msg, fields...))
}

func (d *DefaultLogger) Debug(msg string, fields ...Fields) {
	d.log(DebugLevel, nil, msg, fields...)
}

func (d *DefaultLogger) Info(msg string, fields ...Fields) {
	d.log(InfoLevel, nil, msg, fields...)
}

func (d *DefaultLogger) Warn(msg string, fields ...Fields) {
	d.log(WarnLevel, nil, msg, fields...)
}

func (d *DefaultLogger) Error(err error, msg string, fields ...Fields) {
	d.log(ErrorLevel, err, msg, fields...)
}

func (d *DefaultLogger) WithFields(fields Fields) Logger {
	merged := make(Fields, len(d.fields)+len(fields))
	maps.Copy(merged, d.fields)
	maps.Copy(merged, fields)
	return &DefaultLogger{out: d.out, level: d.level, fields: merged}
}

// NoOpLogger discards everything
type NoOpLogger struct{}

func (NoOpLogger) Debug(msg string, fields ...Fields)            {}
func (NoOpLogger) Info(msg string, fields ...Fields)             {}
func (NoOpLogger) Warn(msg string, fields ...Fields)             {}
func (NoOpLogger) Error(err error, msg string, fields ...Fields) {}
func (n NoOpLogger) WithFields(fields Fields) Logger             { return n }

// OrNoOp returns l, or a NoOpLogger when l is nil
func OrNoOp(l Logger) Logger {
	if l == nil {
		return NoOpLogger{}
	}
	return l
}
