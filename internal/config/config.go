// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, the process exits.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all runtime configuration for the matching service.
type Config struct {
	Port              string
	DatabaseURL       string
	RedisURL          string
	RankIntervalHours int // how often the periodic re-rank fires
	RankBatchLimit    int // max candidate jobs evaluated per run

	// Eligibility-enforcement flags; per-call overrides merge on top.
	EnforceRemoteFilter   bool
	EnforceLocationFilter bool
	EnforceLanguageFilter bool
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	interval := 6
	if s := os.Getenv("RANK_INTERVAL_HOURS"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("RANK_INTERVAL_HOURS must be a positive integer, got %q", s)
		}
		interval = v
	}

	batchLimit := 200
	if s := os.Getenv("RANK_BATCH_LIMIT"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("RANK_BATCH_LIMIT must be a positive integer, got %q", s)
		}
		batchLimit = v
	}

	port := os.Getenv("MATCHING_PORT")
	if port == "" {
		port = "8083"
	}

	enforceRemote, err := boolEnv("ENFORCE_REMOTE_FILTER", true)
	if err != nil {
		return nil, err
	}
	enforceLocation, err := boolEnv("ENFORCE_LOCATION_FILTER", true)
	if err != nil {
		return nil, err
	}
	enforceLanguage, err := boolEnv("ENFORCE_LANGUAGE_FILTER", false)
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:                  port,
		DatabaseURL:           dbURL,
		RedisURL:              redisURL,
		RankIntervalHours:     interval,
		RankBatchLimit:        batchLimit,
		EnforceRemoteFilter:   enforceRemote,
		EnforceLocationFilter: enforceLocation,
		EnforceLanguageFilter: enforceLanguage,
	}, nil
}

func boolEnv(name string, fallback bool) (bool, error) {
	s := os.Getenv(name)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean, got %q", name, s)
	}
	return v, nil
}
