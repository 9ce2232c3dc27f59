package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseSubstitutesEnv(t *testing.T) {
	t.Setenv("TASKHUB_TEST_SECRET", "s3cret")
	t.Setenv("DB_PORT", "")

	cfg, err := Parse([]byte(`
server:
  addr: ":9000"
  legacy_task_list: true
auth:
  jwt_secret: ${TASKHUB_TEST_SECRET}
  token_ttl: 2h
database:
  driver: postgres
  host: localhost
  port: 5433
`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Auth.JWTSecret != "s3cret" {
		t.Errorf("jwt_secret = %q", cfg.Auth.JWTSecret)
	}
	if cfg.Auth.TokenTTL != 2*time.Hour {
		t.Errorf("token_ttl = %v", cfg.Auth.TokenTTL)
	}
	var server Server = cfg.Server
	if server.Addr != ":9000" || !server.LegacyTaskList {
		t.Errorf("server = %+v", server)
	}
	var authCfg Auth = cfg.Auth
	if authCfg.BcryptCost != 0 {
		t.Errorf("bcrypt_cost = %d", authCfg.BcryptCost)
	}
	if cfg.Database.Port != 5433 {
		t.Errorf("port = %d", cfg.Database.Port)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestParseDefaults(t *testing.T) {
	t.Setenv("DB_PORT", "")
	t.Setenv("SecretJwt", "from-env")

	cfg, err := Parse([]byte("database:\n  driver: sqlite\n  path: /tmp/taskhub.db\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":8000" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("read_timeout = %v", cfg.Server.ReadTimeout)
	}
	if len(cfg.Server.AllowOrigins) != 1 || cfg.Server.AllowOrigins[0] != "*" {
		t.Errorf("allow_origins = %v", cfg.Server.AllowOrigins)
	}
	if cfg.Auth.JWTSecret != "from-env" {
		t.Errorf("jwt_secret = %q", cfg.Auth.JWTSecret)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
	if cfg.TokenLifetime() != 24*time.Hour {
		t.Errorf("token lifetime = %v", cfg.TokenLifetime())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestNonExpiringTokens(t *testing.T) {
	t.Setenv("DB_PORT", "")
	cfg, err := Parse([]byte("auth:\n  jwt_secret: x\n  token_ttl: 1h\n  non_expiring: true\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TokenLifetime() != 0 {
		t.Errorf("token lifetime = %v, want 0", cfg.TokenLifetime())
	}
}

func TestDBPortOverride(t *testing.T) {
	t.Setenv("DB_PORT", "6543")
	cfg, err := Parse([]byte("database:\n  port: 5432\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Database.Port != 6543 {
		t.Errorf("port = %d, want 6543", cfg.Database.Port)
	}

	t.Setenv("DB_PORT", "not-a-number")
	if _, err := Parse([]byte("{}")); err == nil {
		t.Error("expected error for invalid DB_PORT")
	}
}

func TestValidate(t *testing.T) {
	t.Setenv("DB_PORT", "")
	t.Setenv("SecretJwt", "")

	tests := []struct {
		name string
		yaml string
	}{
		{"missing secret", "database:\n  driver: sqlite\n  path: x.db\n"},
		{"unknown driver", "auth:\n  jwt_secret: x\ndatabase:\n  driver: redis\n"},
		{"postgres without host", "auth:\n  jwt_secret: x\n"},
		{"sqlite without path", "auth:\n  jwt_secret: x\ndatabase:\n  driver: sqlite\n"},
		{"mongo without uri", "auth:\n  jwt_secret: x\ndatabase:\n  driver: mongo\n"},
		{"negative ttl", "auth:\n  jwt_secret: x\n  token_ttl: -1h\ndatabase:\n  driver: sqlite\n  path: x.db\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.yaml))
			if err != nil {
				t.Fatal(err)
			}
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error")
	}
}

func TestLoadFile(t *testing.T) {
	t.Setenv("DB_PORT", "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("auth:\n  jwt_secret: abc\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Auth.JWTSecret != "abc" {
		t.Errorf("jwt_secret = %q", cfg.Auth.JWTSecret)
	}
}
