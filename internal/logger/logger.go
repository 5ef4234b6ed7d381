// Package logger is a small structured logger writing JSON or text lines.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"
)

// LogLevel represents the severity level of a log message
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	FATAL
)

func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// LogFormat represents the output format for logs
type LogFormat int

const (
	JSONFormat LogFormat = iota
	TextFormat
	// AutoFormat picks text for terminals and JSON otherwise
	AutoFormat
)

// Fields carries structured key/value context for a log line
type Fields map[string]interface{}

// LogEntry is one JSON log line
type LogEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	Component string `json:"component,omitempty"`
	Function  string `json:"function,omitempty"`
	File      string `json:"file,omitempty"`
	Line      int    `json:"line,omitempty"`
	Fields    Fields `json:"fields,omitempty"`
	Error     string `json:"error,omitempty"`
}

// sink is shared by a logger and all loggers derived from it so that
// level, format and output changes apply to the whole family.
type sink struct {
	mu     sync.Mutex
	level  LogLevel
	format LogFormat
	output io.Writer
}

// Logger writes leveled entries. Derived loggers share their parent's sink.
type Logger struct {
	sink      *sink
	component string
	fields    Fields
}

// Config holds logger configuration
type Config struct {
	Level     LogLevel
	Format    LogFormat
	Output    io.Writer
	Component string
}

// exit is replaced in tests
var (
	osExit = os.Exit
	exit   = osExit
)

// New creates a new logger with the given configuration
func New(config Config) *Logger {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	return &Logger{
		sink: &sink{
			level:  config.Level,
			format: resolveFormat(config.Format, config.Output),
			output: config.Output,
		},
		component: config.Component,
	}
}

// NewDefault creates an INFO logger writing to stdout
func NewDefault() *Logger {
	return New(Config{Level: INFO, Format: AutoFormat})
}

func resolveFormat(format LogFormat, out io.Writer) LogFormat {
	if format != AutoFormat {
		return format
	}
	if f, ok := out.(*os.File); ok {
		if fi, err := f.Stat(); err == nil && fi.Mode()&os.ModeCharDevice != 0 {
			return TextFormat
		}
	}
	return JSONFormat
}

// WithComponent returns a logger tagging entries with component
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{sink: l.sink, component: component, fields: l.fields}
}

// With returns a logger that adds fields to every entry
func (l *Logger) With(fields Fields) *Logger {
	merged := make(Fields, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &Logger{sink: l.sink, component: l.component, fields: merged}
}

// SetLevel sets the minimum log level
func (l *Logger) SetLevel(level LogLevel) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.level = level
}

// SetFormat sets the log output format
func (l *Logger) SetFormat(format LogFormat) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.format = resolveFormat(format, l.sink.output)
}

// SetOutput redirects the logger family
func (l *Logger) SetOutput(w io.Writer) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.output = w
}

// Enabled reports whether entries at level would be written
func (l *Logger) Enabled(level LogLevel) bool {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	return level >= l.sink.level
}

// skip is the caller frame as seen from log
const skip = 2

func (l *Logger) log(level LogLevel, message string, fields []Fields, err error) {
	if !l.Enabled(level) {
		return
	}

	entry := LogEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     level.String(),
		Message:   message,
		Component: l.component,
		Fields:    l.merge(fields),
	}
	if pc, file, line, ok := runtime.Caller(skip); ok {
		entry.File = file
		entry.Line = line
		if fn := runtime.FuncForPC(pc); fn != nil {
			entry.Function = fn.Name()
			if i := strings.LastIndex(entry.Function, "/"); i >= 0 {
				entry.Function = entry.Function[i+1:]
			}
		}
	}
	if err != nil {
		entry.Error = err.Error()
	}

	l.sink.mu.Lock()
	var line []byte
	if l.sink.format == TextFormat {
		line = []byte(formatText(entry))
	} else {
		b, mErr := json.Marshal(entry)
		if mErr != nil {
			// unsupported field values; keep the message
			entry.Fields = Fields{"marshal_error": mErr.Error()}
			b, _ = json.Marshal(entry)
		}
		line = append(b, '\n')
	}
	l.sink.output.Write(line)
	l.sink.mu.Unlock()

	if level == FATAL {
		exit(1)
	}
}

func (l *Logger) merge(extra []Fields) Fields {
	if len(l.fields) == 0 && len(extra) == 0 {
		return nil
	}
	if len(extra) == 0 {
		return l.fields
	}
	out := make(Fields, len(l.fields)+len(extra[0]))
	for k, v := range l.fields {
		out[k] = v
	}
	for _, f := range extra {
		for k, v := range f {
			out[k] = v
		}
	}
	return out
}

// formatText renders an entry as one human-readable line with sorted fields
func formatText(entry LogEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %-5s", entry.Timestamp, entry.Level)
	if entry.Component != "" {
		fmt.Fprintf(&b, " [%s]", entry.Component)
	}
	b.WriteString(" ")
	b.WriteString(entry.Message)

	if len(entry.Fields) > 0 {
		keys := make([]string, 0, len(entry.Fields))
		for k := range entry.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, entry.Fields[k])
		}
	}
	if entry.Error != "" {
		fmt.Fprintf(&b, " error=%q", entry.Error)
	}
	if entry.File != "" && entry.Line > 0 {
		short := entry.File
		if i := strings.LastIndex(short, "/"); i >= 0 {
			short = short[i+1:]
		}
		fmt.Fprintf(&b, " (%s:%d)", short, entry.Line)
	}
	b.WriteString("\n")
	return b.String()
}

func (l *Logger) Debug(message string, fields ...Fields) {
	l.log(DEBUG, message, fields, nil)
}

func (l *Logger) Info(message string, fields ...Fields) {
	l.log(INFO, message, fields, nil)
}

func (l *Logger) Warn(message string, fields ...Fields) {
	l.log(WARN, message, fields, nil)
}

func (l *Logger) Error(message string, err error, fields ...Fields) {
	l.log(ERROR, message, fields, err)
}

// Fatal logs and exits the process with status 1
func (l *Logger) Fatal(message string, err error, fields ...Fields) {
	l.log(FATAL, message, fields, err)
}

// Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.log(INFO, fmt.Sprintf(format, args...), nil, nil)
}

// Warnf logs a formatted warning message
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.log(WARN, fmt.Sprintf(format, args...), nil, nil)
}
