package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors IngestConfig with string durations for YAML friendliness
type fileConfig struct {
	FetchTimeout       string `yaml:"fetch_timeout"`
	ProbeTimeout       string `yaml:"probe_timeout"`
	MaxAttempts        int    `yaml:"max_attempts"`
	InitialBackoff     string `yaml:"initial_backoff"`
	MaxBackoff         string `yaml:"max_backoff"`
	UserAgent          string `yaml:"user_agent"`
	CacheDir           string `yaml:"cache_dir"`
	CacheTTL           string `yaml:"cache_ttl"`
	CBFailureThreshold int    `yaml:"cb_failure_threshold"`
	CBTimeout          string `yaml:"cb_timeout"`
	CBHalfOpenRequests int    `yaml:"cb_half_open_requests"`
	LogLevel           string `yaml:"log_level"`
}

// LoadFromFile loads ingestion configuration from a YAML file, applying
// file values over defaults. Unset fields keep their defaults.
func LoadFromFile(path string) (*IngestConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var f fileConfig
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg := DefaultIngestConfig()

	durations := []struct {
		raw    string
		field  string
		target *time.Duration
	}{
		{f.FetchTimeout, "fetch_timeout", &cfg.FetchTimeout},
		{f.ProbeTimeout, "probe_timeout", &cfg.ProbeTimeout},
		{f.InitialBackoff, "initial_backoff", &cfg.InitialBackoff},
		{f.MaxBackoff, "max_backoff", &cfg.MaxBackoff},
		{f.CacheTTL, "cache_ttl", &cfg.CacheTTL},
		{f.CBTimeout, "cb_timeout", &cfg.CBTimeout},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid duration %q", d.field, d.raw)
		}
		*d.target = parsed
	}

	if f.MaxAttempts != 0 {
		cfg.MaxAttempts = f.MaxAttempts
	}
	if f.UserAgent != "" {
		cfg.UserAgent = f.UserAgent
	}
	if f.CacheDir != "" {
		cfg.CacheDir = f.CacheDir
	}
	if f.CBFailureThreshold != 0 {
		cfg.CBFailureThreshold = f.CBFailureThreshold
	}
	if f.CBHalfOpenRequests != 0 {
		cfg.CBHalfOpenRequests = f.CBHalfOpenRequests
	}
	if f.LogLevel != "" {
		cfg.LogLevel = f.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
