package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr string

	// Question Bank Service
	BankBaseURL      string
	BankTokenURL     string // empty = unauthenticated (dev/offline bank)
	BankClientID     string
	BankClientSecret string
	BankTimeout      time.Duration // per call

	// Test Persistence Service
	TestServiceURL     string
	TestServiceTimeout time.Duration

	// Audit log
	DBDriver string
	DBDSN    string

	// Audio preview cache
	BlobBasePath string

	// Named synthesis voices (YAML, optional)
	VoiceProfilePath string

	CORSOrigins []string
}

func FromEnv() Config {
	return Config{
		HTTPAddr:           envOr("HTTP_ADDR", ":8080"),
		BankBaseURL:        envOr("BANK_BASE_URL", "http://localhost:9090"),
		BankTokenURL:       os.Getenv("BANK_TOKEN_URL"),
		BankClientID:       os.Getenv("BANK_CLIENT_ID"),
		BankClientSecret:   os.Getenv("BANK_CLIENT_SECRET"),
		BankTimeout:        envDuration("BANK_TIMEOUT", 15*time.Second),
		TestServiceURL:     envOr("TEST_SERVICE_URL", "http://localhost:9091"),
		TestServiceTimeout: envDuration("TEST_SERVICE_TIMEOUT", 15*time.Second),
		DBDriver:           envOr("DB_DRIVER", "sqlite"),
		DBDSN:              envOr("DB_DSN", ""),
		BlobBasePath:       envOr("BLOB_BASE_PATH", "./data"),
		VoiceProfilePath:   os.Getenv("VOICE_PROFILES"),
		CORSOrigins:        csvOr("CORS_ORIGINS", "http://localhost:3000"),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return def
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
