package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for timeouts.
type Config struct {
	Env                string // application environment (e.g. "dev", "prod")
	Port               string // HTTP port to listen on
	UpstreamBaseURL    string // root URL of the authoritative cafe-platform API
	UpstreamTimeoutSec int    // per-call timeout against the upstream API in seconds
	JWTSecret          string // secret used to verify operator bearer tokens
	DefaultCafeID      string // optional fallback tenant when a token carries no cafe claim
}

// Load reads configuration values from environment variables and returns a
// Config. Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:                must("APP_ENV"),                 // environment (dev/test/prod)
		Port:               must("APP_PORT"),                // port to bind the HTTP server
		UpstreamBaseURL:    must("UPSTREAM_BASE_URL"),       // remote store API root
		UpstreamTimeoutSec: mustInt("UPSTREAM_TIMEOUT_SEC"), // timeout for upstream calls
		JWTSecret:          must("JWT_SECRET"),              // secret for verifying JWTs
		DefaultCafeID:      os.Getenv("DEFAULT_CAFE_ID"),    // empty allowed
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
