package config

import (
	"os"
	"strings"
	"testing"
)

func TestLoader_ParseEnvironment(t *testing.T) {

	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		for _, key := range []string{"ONCALL_HTTP_PORT", "ONCALL_SQLITE_DSN", "ONCALL_API_TOKEN_HASH"} {
			if err := os.Unsetenv(key); err != nil {
				t.Fatalf("failed to unset %s: %v", key, err)
			}
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 8080 {
			t.Fatalf("expected default HTTP port 8080, got %d", cfg.HTTPPort)
		}
		if !strings.HasPrefix(cfg.SQLiteDSN, "file:oncall.db") {
			t.Fatalf("unexpected default DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.APITokenHash != "" {
			t.Fatalf("expected no token hash by default, got %q", cfg.APITokenHash)
		}
	})

	t.Run("reads provided values", func(t *testing.T) {
		t.Setenv("ONCALL_HTTP_PORT", "9090")
		t.Setenv("ONCALL_SQLITE_DSN", "file:custom.db")
		t.Setenv("ONCALL_API_TOKEN_HASH", "$argon2id$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		if cfg.HTTPPort != 9090 {
			t.Fatalf("expected port 9090, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "file:custom.db" {
			t.Fatalf("unexpected DSN: %q", cfg.SQLiteDSN)
		}
		if !strings.HasPrefix(cfg.APITokenHash, "$argon2id$") {
			t.Fatalf("unexpected token hash: %q", cfg.APITokenHash)
		}
	})

	t.Run("rejects invalid values", func(t *testing.T) {
		t.Setenv("ONCALL_HTTP_PORT", "not-a-port")

		_, err := Load()
		if err == nil {
			t.Fatal("expected error for invalid port")
		}
		if !strings.Contains(err.Error(), "ONCALL_HTTP_PORT") {
			t.Fatalf("error does not name the offending variable: %v", err)
		}
	})

	t.Run("rejects non-argon2id token hashes", func(t *testing.T) {
		t.Setenv("ONCALL_HTTP_PORT", "8080")
		t.Setenv("ONCALL_API_TOKEN_HASH", "plaintext-token")

		_, err := Load()
		if err == nil {
			t.Fatal("expected error for plaintext token hash")
		}
		if !strings.Contains(err.Error(), "ONCALL_API_TOKEN_HASH") {
			t.Fatalf("error does not name the offending variable: %v", err)
		}
	})
}
