// Package compiler implements the declaration pass: scopes, the declaration
// visitor, the control-flow variable tracker and the specialization queue.
package compiler

import (
	"fmt"
	"strings"
	"sync"

	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarning
	LogLevelError
	LogLevelNone
)

// ParseLogLevel maps an option string to a level. Unknown strings mean
// warning.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return LogLevelDebug
	case "info":
		return LogLevelInfo
	case "error":
		return LogLevelError
	case "none":
		return LogLevelNone
	}
	return LogLevelWarning
}

// verbosity converts a level to commonlog's verbosity scale.
func (l LogLevel) verbosity() int {
	switch l {
	case LogLevelDebug:
		return 2
	case LogLevelInfo:
		return 1
	case LogLevelError:
		return -2
	case LogLevelNone:
		return -4
	}
	return -1
}

var configureOnce sync.Once

// ConfigureLogging sets up the commonlog backend. Only the first call has an
// effect.
func ConfigureLogging(level LogLevel) {
	configureOnce.Do(func() {
		commonlog.Configure(level.verbosity(), nil)
	})
}

// Logger provides centralized logging for the compiler
type Logger struct {
	mu         sync.Mutex
	log        commonlog.Logger
	errorCount int
	warnCount  int
	infoCount  int
	debugCount int
}

// NewLogger creates a new logger under the given commonlog name
func NewLogger(name string) *Logger {
	return &Logger{log: commonlog.GetLogger(name)}
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log.Debugf(format, args...)
	l.mu.Lock()
	l.debugCount++
	l.mu.Unlock()
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...interface{}) {
	l.log.Infof(format, args...)
	l.mu.Lock()
	l.infoCount++
	l.mu.Unlock()
}

// Warning logs a warning message
func (l *Logger) Warning(format string, args ...interface{}) {
	l.log.Warningf(format, args...)
	l.mu.Lock()
	l.warnCount++
	l.mu.Unlock()
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.log.Errorf(format, args...)
	l.mu.Lock()
	l.errorCount++
	l.mu.Unlock()
}

// ErrorAt logs an error at a specific source location
func (l *Logger) ErrorAt(file string, line, column int, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	l.Error("%s:%d:%d: %s", file, line, column, message)
}

// WarningAt logs a warning at a specific source location
func (l *Logger) WarningAt(file string, line, column int, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	l.Warning("%s:%d:%d: %s", file, line, column, message)
}

// Reset resets all counters
func (l *Logger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errorCount = 0
	l.warnCount = 0
	l.infoCount = 0
	l.debugCount = 0
}

// PrintSummary logs a summary of logged messages
func (l *Logger) PrintSummary() {
	l.mu.Lock()
	errors, warnings := l.errorCount, l.warnCount
	l.mu.Unlock()

	if errors > 0 || warnings > 0 {
		l.log.Noticef("declaration summary: %d error(s), %d warning(s)", errors, warnings)
	}
}
