// Package config holds server configuration sourced from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
)

// defaultVerifyURL is the identity service's token verification endpoint.
const defaultVerifyURL = "https://api.instantdb.com/runtime/auth/verify_refresh_token"

// Config is the server-side configuration. LLM provider configuration lives
// in the llm package.
type Config struct {
	// Addr is the listen address.
	Addr string

	// DBPath is the SQLite file backing the usage counter.
	DBPath string

	// AuthVerifyURL is the identity verification endpoint.
	AuthVerifyURL string

	// AuthAppID identifies this app to the identity service.
	AuthAppID string

	// UsageLimit is the per-identity invocation ceiling.
	UsageLimit int

	// AllowedOrigins configures CORS for the browser frontend.
	AllowedOrigins []string
}

// FromEnv builds a Config from environment variables with defaults suitable
// for local development.
func FromEnv() Config {
	return Config{
		Addr:           getenvOr("METANOTES_ADDR", ":8000"),
		DBPath:         getenvOr("METANOTES_DB", "usage.db"),
		AuthVerifyURL:  getenvOr("METANOTES_AUTH_VERIFY_URL", defaultVerifyURL),
		AuthAppID:      os.Getenv("METANOTES_AUTH_APP_ID"),
		UsageLimit:     getenvInt("METANOTES_USAGE_LIMIT", 5),
		AllowedOrigins: splitList(getenvOr("METANOTES_ALLOWED_ORIGINS", "*")),
	}
}

func getenvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
