package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// IngestConfig centralizes all ingestion-related configuration
type IngestConfig struct {
	// Transport settings
	FetchTimeout   time.Duration // Per-attempt timeout for playlist downloads
	ProbeTimeout   time.Duration // Timeout for connection probes
	MaxAttempts    int           // Maximum fetch attempts per call
	InitialBackoff time.Duration // Delay before the first retry
	MaxBackoff     time.Duration // Upper bound for inter-retry delays
	UserAgent      string        // User-Agent header sent with every request

	// Cache settings
	CacheDir string        // Directory for the raw playlist cache ("" disables caching)
	CacheTTL time.Duration // How long cached playlists stay fresh

	// Circuit breaker settings
	CBFailureThreshold int           // Consecutive fetch-cycle failures before opening circuit
	CBTimeout          time.Duration // Timeout before attempting to close circuit
	CBHalfOpenRequests int           // Number of requests allowed in half-open state

	// Logging settings
	LogLevel string // Log level: DEBUG, INFO, WARN, ERROR
}

// DefaultIngestConfig returns an IngestConfig with sensible defaults
func DefaultIngestConfig() *IngestConfig {
	return &IngestConfig{
		// Transport defaults
		FetchTimeout:   30 * time.Second,
		ProbeTimeout:   5 * time.Second,
		MaxAttempts:    3,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     30 * time.Second,
		UserAgent:      "m3u-ingest/1.0",

		// Cache defaults (disabled unless a directory is configured)
		CacheDir: "",
		CacheTTL: 1 * time.Hour,

		// Circuit breaker defaults
		CBFailureThreshold: 5,
		CBTimeout:          30 * time.Second,
		CBHalfOpenRequests: 1,

		// Logging defaults
		LogLevel: "INFO",
	}
}

// envParser is a helper for parsing environment variables with validation
type envParser struct {
	errors []string
}

// parseDuration parses a duration environment variable, ensuring it's positive
func (p *envParser) parseDuration(envName string, target *time.Duration) {
	val := os.Getenv(envName)
	if val == "" {
		return
	}

	duration, err := time.ParseDuration(val)
	if err != nil {
		p.errors = append(p.errors, fmt.Sprintf("%s: invalid duration format (use '30s', '1m', etc.)", envName))
		return
	}

	if duration <= 0 {
		p.errors = append(p.errors, fmt.Sprintf("%s must be positive", envName))
		return
	}

	*target = duration
}

// parseInt parses an integer environment variable, ensuring it's positive
func (p *envParser) parseInt(envName string, target *int) {
	val := os.Getenv(envName)
	if val == "" {
		return
	}

	intVal, err := strconv.Atoi(val)
	if err != nil {
		p.errors = append(p.errors, fmt.Sprintf("%s: must be a valid integer", envName))
		return
	}

	if intVal <= 0 {
		p.errors = append(p.errors, fmt.Sprintf("%s must be positive", envName))
		return
	}

	*target = intVal
}

// parseString copies a string environment variable when set
func (p *envParser) parseString(envName string, target *string) {
	if val := os.Getenv(envName); val != "" {
		*target = val
	}
}

// parseEnum parses an enum environment variable from a set of valid values
func (p *envParser) parseEnum(envName string, target *string, validValues map[string]bool) {
	val := os.Getenv(envName)
	if val == "" {
		return
	}

	normalized := strings.ToUpper(val)
	if !validValues[normalized] {
		// Build list of valid values for error message
		var validList []string
		for k := range validValues {
			validList = append(validList, k)
		}
		p.errors = append(p.errors, fmt.Sprintf("%s must be one of: %s", envName, strings.Join(validList, ", ")))
		return
	}

	*target = normalized
}

// LoadFromEnv loads ingestion configuration from environment variables
// and returns an error if any value is invalid
func LoadFromEnv() (*IngestConfig, error) {
	cfg := DefaultIngestConfig()
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overlays M3U_* environment variables onto the configuration,
// so env values win over whatever the config was loaded from
func (c *IngestConfig) ApplyEnv() error {
	parser := &envParser{}

	// Parse all environment variables
	parser.parseDuration("M3U_FETCH_TIMEOUT", &c.FetchTimeout)
	parser.parseDuration("M3U_PROBE_TIMEOUT", &c.ProbeTimeout)
	parser.parseInt("M3U_MAX_ATTEMPTS", &c.MaxAttempts)
	parser.parseDuration("M3U_INITIAL_BACKOFF", &c.InitialBackoff)
	parser.parseDuration("M3U_MAX_BACKOFF", &c.MaxBackoff)
	parser.parseString("M3U_USER_AGENT", &c.UserAgent)
	parser.parseString("M3U_CACHE_DIR", &c.CacheDir)
	parser.parseDuration("M3U_CACHE_TTL", &c.CacheTTL)
	parser.parseInt("M3U_CB_FAILURE_THRESHOLD", &c.CBFailureThreshold)
	parser.parseDuration("M3U_CB_TIMEOUT", &c.CBTimeout)
	parser.parseInt("M3U_CB_HALF_OPEN_REQUESTS", &c.CBHalfOpenRequests)
	parser.parseEnum("M3U_LOG_LEVEL", &c.LogLevel, map[string]bool{
		"DEBUG": true,
		"INFO":  true,
		"WARN":  true,
		"ERROR": true,
	})

	// Validate relationships between values
	if c.InitialBackoff > c.MaxBackoff {
		parser.errors = append(parser.errors, "M3U_INITIAL_BACKOFF must be less than or equal to M3U_MAX_BACKOFF")
	}

	if len(parser.errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(parser.errors, "\n  - "))
	}

	return nil
}

// Validate performs additional validation on the configuration
func (c *IngestConfig) Validate() error {
	var errors []string

	if c.FetchTimeout <= 0 {
		errors = append(errors, "FetchTimeout must be positive")
	}

	if c.ProbeTimeout <= 0 {
		errors = append(errors, "ProbeTimeout must be positive")
	}

	if c.MaxAttempts <= 0 {
		errors = append(errors, "MaxAttempts must be positive")
	}

	if c.InitialBackoff <= 0 {
		errors = append(errors, "InitialBackoff must be positive")
	}

	if c.MaxBackoff <= 0 {
		errors = append(errors, "MaxBackoff must be positive")
	}

	if c.InitialBackoff > c.MaxBackoff {
		errors = append(errors, "InitialBackoff must be <= MaxBackoff")
	}

	if c.CacheTTL <= 0 {
		errors = append(errors, "CacheTTL must be positive")
	}

	if c.CBFailureThreshold <= 0 {
		errors = append(errors, "CBFailureThreshold must be positive")
	}

	if c.CBTimeout <= 0 {
		errors = append(errors, "CBTimeout must be positive")
	}

	if c.CBHalfOpenRequests <= 0 {
		errors = append(errors, "CBHalfOpenRequests must be positive")
	}

	validLevels := map[string]bool{
		"DEBUG": true,
		"INFO":  true,
		"WARN":  true,
		"ERROR": true,
	}
	if !validLevels[c.LogLevel] {
		errors = append(errors, "LogLevel must be one of: DEBUG, INFO, WARN, ERROR")
	}

	if len(errors) > 0 {
		return fmt.Errorf("invalid configuration:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}
