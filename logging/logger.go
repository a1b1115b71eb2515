package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

// LogLevel represents the severity level of a log message
type LogLevel int

// Log level constants define the severity hierarchy for filtering log output
const (
	DEBUG LogLevel = iota // DEBUG is the lowest severity level for detailed diagnostics
	INFO                  // INFO is for general informational messages
	WARN                  // WARN is for warning messages that don't prevent operation
	ERROR                 // ERROR is the highest severity for error conditions
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
	default:
		return "UNKNOWN"
	}
}

// ParseLogLevel converts a string to a LogLevel
func ParseLogLevel(s string) LogLevel {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

// Logger provides structured logging with configurable levels
type Logger struct {
	mu     sync.Mutex
	level  LogLevel
	logger *log.Logger
	prefix string
}

// New creates a new Logger with the specified level
func New(level LogLevel, prefix string) *Logger {
	return &Logger{
		level:  level,
		logger: log.New(os.Stderr, "", log.LstdFlags),
		prefix: prefix,
	}
}

// NewWithWriter creates a new Logger with custom output writer
func NewWithWriter(level LogLevel, prefix string, w io.Writer) *Logger {
	return &Logger{
		level:  level,
		logger: log.New(w, "", log.LstdFlags),
		prefix: prefix,
	}
}

// SetLevel changes the log level
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// GetLevel returns the current log level
func (l *Logger) GetLevel() LogLevel {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// shouldLog checks if a message at the given level should be logged
func (l *Logger) shouldLog(level LogLevel) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return level >= l.level
}

// log writes a log message with the given level and fields
func (l *Logger) log(level LogLevel, msg string, fields map[string]interface{}) {
	if !l.shouldLog(level) {
		return
	}

	// Build structured log message
	var sb strings.Builder

	// Add prefix if set
	if l.prefix != "" {
		sb.WriteString(l.prefix)
		sb.WriteString(" ")
	}

	// Add level
	sb.WriteString(level.String())
	sb.WriteString(": ")

	// Add message
	sb.WriteString(msg)

	// Add fields
	if len(fields) > 0 {
		sb.WriteString(" |")
		for k, v := range fields {
			sb.WriteString(fmt.Sprintf(" %s=%v", k, v))
		}
	}

	l.logger.Println(sb.String())
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	l.log(DEBUG, msg, fields)
}

// Info logs an info message
func (l *Logger) Info(msg string, fields map[string]interface{}) {
	l.log(INFO, msg, fields)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, fields map[string]interface{}) {
	l.log(WARN, msg, fields)
}

// Error logs an error message
func (l *Logger) Error(msg string, fields map[string]interface{}) {
	l.log(ERROR, msg, fields)
}

// IngestEvent represents a type of ingestion-related event
type IngestEvent string

// Ingestion event constants identify specific fetch and parse lifecycle events
const (
	EventFetchAttempt         IngestEvent = "fetch_attempt"          // EventFetchAttempt indicates a fetch attempt is starting
	EventFetchRetry           IngestEvent = "fetch_retry"            // EventFetchRetry indicates a retry has been scheduled
	EventFetchFailed          IngestEvent = "fetch_failed"           // EventFetchFailed indicates all fetch attempts were exhausted
	EventCacheFallback        IngestEvent = "cache_fallback"         // EventCacheFallback indicates stale cached content was served
	EventParseSummary         IngestEvent = "parse_summary"          // EventParseSummary reports the outcome of a parse run
	EventCircuitBreakerChange IngestEvent = "circuit_breaker_change" // EventCircuitBreakerChange indicates circuit breaker state transition
)

// LogFetchAttempt logs the start of a fetch attempt (DEBUG level)
func (l *Logger) LogFetchAttempt(source string, attempt int) {
	l.Debug("Fetch attempt", map[string]interface{}{
		"event":   EventFetchAttempt,
		"source":  source,
		"attempt": attempt,
	})
}

// LogFetchRetry logs a scheduled retry after a failed attempt (INFO level)
func (l *Logger) LogFetchRetry(source string, attempt int, backoff time.Duration, reason string) {
	l.Info("Fetch retry scheduled", map[string]interface{}{
		"event":   EventFetchRetry,
		"source":  source,
		"attempt": attempt,
		"backoff": backoff.String(),
		"reason":  reason,
	})
}

// LogFetchFailed logs a definitively failed fetch (ERROR level)
func (l *Logger) LogFetchFailed(source string, attempts int, reason string) {
	l.Error("Fetch failed", map[string]interface{}{
		"event":    EventFetchFailed,
		"source":   source,
		"attempts": attempts,
		"reason":   reason,
	})
}

// LogCacheFallback logs that stale cached content was served (WARN level)
func (l *Logger) LogCacheFallback(source string, cachedAt time.Time) {
	l.Warn("Serving cached playlist after fetch failure", map[string]interface{}{
		"event":    EventCacheFallback,
		"source":   source,
		"cachedAt": cachedAt.Format(time.RFC3339),
		"age":      time.Since(cachedAt).String(),
	})
}

// LogParseSummary logs the outcome of a parse run (INFO level)
func (l *Logger) LogParseSummary(session string, channels, movies, errors int) {
	l.Info("Parse complete", map[string]interface{}{
		"event":    EventParseSummary,
		"session":  session,
		"channels": channels,
		"movies":   movies,
		"errors":   errors,
	})
}

// LogCircuitBreakerChange logs a circuit breaker state change (WARN level)
func (l *Logger) LogCircuitBreakerChange(oldState, newState string, source string) {
	fields := map[string]interface{}{
		"event":    EventCircuitBreakerChange,
		"oldState": oldState,
		"newState": newState,
	}
	if source != "" {
		fields["source"] = source
	}
	l.Warn("Circuit breaker state changed", fields)
}
