package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config captures environment driven configuration values for the roster
// service.
type Config struct {
	HTTPPort     int
	SQLiteDSN    string
	APITokenHash string
}

// Load parses configuration values from the current process environment.
//
// All values are optional: the loader applies local-development defaults and
// reports invalid entries collectively. Leaving ONCALL_API_TOKEN_HASH unset
// runs the HTTP API without authentication, which is only suitable for
// local use.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:  8080,
		SQLiteDSN: "file:oncall.db?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
	}

	invalid := make([]string, 0, 1)

	if portValue := strings.TrimSpace(os.Getenv("ONCALL_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "ONCALL_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("ONCALL_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if hash := strings.TrimSpace(os.Getenv("ONCALL_API_TOKEN_HASH")); hash != "" {
		if !strings.HasPrefix(hash, "$argon2id$") {
			invalid = append(invalid, "ONCALL_API_TOKEN_HASH")
		} else {
			cfg.APITokenHash = hash
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
