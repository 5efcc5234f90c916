package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"
)

type LogLevel int

const (
	TRACE LogLevel = iota
	DEBUG
	INFO
	WARN
	ERROR
)

var (
	mu           sync.RWMutex
	root         hclog.Logger
	currentLevel LogLevel
)

func init() {
	Configure(os.Stderr)
}

// Configure (re)creates the root logger writing to out, using SORATUN_LOG_LEVEL
// and SORATUN_LOG_JSON from the environment.
func Configure(out io.Writer) {
	level := parseLevel(os.Getenv("SORATUN_LOG_LEVEL"))

	mu.Lock()
	defer mu.Unlock()
	currentLevel = level
	root = hclog.New(&hclog.LoggerOptions{
		Name:       "soratun",
		Level:      toHclogLevel(level),
		Output:     out,
		JSONFormat: strings.EqualFold(os.Getenv("SORATUN_LOG_JSON"), "true"),
	})
}

func parseLevel(lvl string) LogLevel {
	switch strings.ToUpper(lvl) {
	case "TRACE":
		return TRACE
	case "DEBUG":
		return DEBUG
	case "INFO", "":
		return INFO
	case "WARN":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

func toHclogLevel(level LogLevel) hclog.Level {
	switch level {
	case TRACE:
		return hclog.Trace
	case DEBUG:
		return hclog.Debug
	case WARN:
		return hclog.Warn
	case ERROR:
		return hclog.Error
	default:
		return hclog.Info
	}
}

// Named returns a sub-logger for structured key/value logging.
func Named(name string) hclog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return root.Named(name)
}

// SetLevel overrides the level picked up from the environment.
func SetLevel(level LogLevel) {
	mu.Lock()
	defer mu.Unlock()
	currentLevel = level
	root.SetLevel(toHclogLevel(level))
}

func current() hclog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return root
}

// Level check functions
func IsTraceEnabled() bool {
	return GetCurrentLevel() <= TRACE
}

func IsDebugEnabled() bool {
	return GetCurrentLevel() <= DEBUG
}

func IsInfoEnabled() bool {
	return GetCurrentLevel() <= INFO
}

func IsWarnEnabled() bool {
	return GetCurrentLevel() <= WARN
}

func IsErrorEnabled() bool {
	return GetCurrentLevel() <= ERROR
}

// Trace level logging
func Tracef(format string, v ...interface{}) {
	if IsTraceEnabled() {
		current().Trace(fmt.Sprintf(format, v...))
	}
}

func Traceln(msg string) {
	if IsTraceEnabled() {
		current().Trace(msg)
	}
}

// Debug level logging
func Debugf(format string, v ...interface{}) {
	if IsDebugEnabled() {
		current().Debug(fmt.Sprintf(format, v...))
	}
}

func Debugln(msg string) {
	if IsDebugEnabled() {
		current().Debug(msg)
	}
}

// Info level logging
func Infof(format string, v ...interface{}) {
	if IsInfoEnabled() {
		current().Info(fmt.Sprintf(format, v...))
	}
}

func Infoln(msg string) {
	if IsInfoEnabled() {
		current().Info(msg)
	}
}

// Warn level logging
func Warnf(format string, v ...interface{}) {
	if IsWarnEnabled() {
		current().Warn(fmt.Sprintf(format, v...))
	}
}

func Warnln(msg string) {
	if IsWarnEnabled() {
		current().Warn(msg)
	}
}

// Error level logging
func Errorf(format string, v ...interface{}) {
	if IsErrorEnabled() {
		current().Error(fmt.Sprintf(format, v...))
	}
}

func Errorln(msg string) {
	if IsErrorEnabled() {
		current().Error(msg)
	}
}

// GetCurrentLevel returns the current log level
func GetCurrentLevel() LogLevel {
	mu.RLock()
	defer mu.RUnlock()
	return currentLevel
}
