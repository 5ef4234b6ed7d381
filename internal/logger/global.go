package logger

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

var (
	globalMu     sync.RWMutex
	globalLogger = NewDefault()
)

func init() {
	// LOG_LEVEL / LOG_FORMAT apply before config is loaded; bad values are ignored here
	// and reported later by Configure.
	_ = Configure(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
}

// Configure applies level and format names to the global logger.
// Empty strings keep the current setting.
func Configure(level, format string) error {
	l := Default()
	if level != "" {
		lv, err := ParseLevel(level)
		if err != nil {
			return err
		}
		l.SetLevel(lv)
	}
	if format != "" {
		f, err := ParseFormat(format)
		if err != nil {
			return err
		}
		l.SetFormat(f)
	}
	return nil
}

// ParseLevel parses a level name such as "info" or "WARNING"
func ParseLevel(level string) (LogLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return DEBUG, nil
	case "INFO":
		return INFO, nil
	case "WARN", "WARNING":
		return WARN, nil
	case "ERROR":
		return ERROR, nil
	case "FATAL":
		return FATAL, nil
	}
	return INFO, fmt.Errorf("unknown log level %q", level)
}

// ParseFormat parses "json", "text" or "auto"
func ParseFormat(format string) (LogFormat, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return JSONFormat, nil
	case "text":
		return TextFormat, nil
	case "auto":
		return AutoFormat, nil
	}
	return AutoFormat, fmt.Errorf("unknown log format %q", format)
}

// Default returns the process-wide logger
func Default() *Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// SetDefault replaces the process-wide logger
func SetDefault(l *Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = l
}

// WithComponent derives a component logger from the process-wide logger
func WithComponent(component string) *Logger {
	return Default().WithComponent(component)
}

func Debug(message string, fields ...Fields) {
	Default().log(DEBUG, message, fields, nil)
}

func Info(message string, fields ...Fields) {
	Default().log(INFO, message, fields, nil)
}

func Warn(message string, fields ...Fields) {
	Default().log(WARN, message, fields, nil)
}

func Error(message string, err error, fields ...Fields) {
	Default().log(ERROR, message, fields, err)
}

func Fatal(message string, err error, fields ...Fields) {
	Default().log(FATAL, message, fields, err)
}
