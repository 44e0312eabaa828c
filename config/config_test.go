package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFillsDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, "config.json"))
	if err != nil {
		t.Fatalf("Load returned error for a missing file: %v", err)
	}

	if cfg.ServerPort != "8080" {
		t.Errorf("expected default port 8080, got %q", cfg.ServerPort)
	}
	if cfg.DatabaseDriver != DriverSQLite {
		t.Errorf("expected sqlite driver, got %q", cfg.DatabaseDriver)
	}
	if cfg.DatabasePath != filepath.Join(dir, "alarmclock.db") {
		t.Errorf("unexpected database path %q", cfg.DatabasePath)
	}
	if cfg.ChallengeTTL() != 10*time.Minute {
		t.Errorf("expected 10m challenge ttl, got %v", cfg.ChallengeTTL())
	}
	if cfg.ProVerifyDelay() != 2*time.Second {
		t.Errorf("expected 2s verify delay, got %v", cfg.ProVerifyDelay())
	}
	if !cfg.ShouldSeed() {
		t.Error("expected seeding to default to true")
	}
}

func TestLoadReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
		"server_port": "9090",
		"database_driver": "postgres",
		"database_dsn": "host=localhost user=alarm dbname=alarm sslmode=disable",
		"log_level": "debug",
		"challenge_ttl_minutes": 3,
		"seed_alarms": false
	}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ServerPort != "9090" {
		t.Errorf("expected port 9090, got %q", cfg.ServerPort)
	}
	if cfg.DatabaseDriver != DriverPostgres {
		t.Errorf("expected postgres driver, got %q", cfg.DatabaseDriver)
	}
	if cfg.ChallengeTTL() != 3*time.Minute {
		t.Errorf("expected 3m ttl, got %v", cfg.ChallengeTTL())
	}
	if cfg.ShouldSeed() {
		t.Error("expected seeding disabled")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("failed to write config fixture: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for a malformed config file")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "sqlite ok", cfg: Config{DatabaseDriver: DriverSQLite, DatabasePath: "a.db"}},
		{name: "sqlite missing path", cfg: Config{DatabaseDriver: DriverSQLite}, wantErr: true},
		{name: "mysql missing dsn", cfg: Config{DatabaseDriver: DriverMySQL}, wantErr: true},
		{name: "mysql ok", cfg: Config{DatabaseDriver: DriverMySQL, DatabaseDSN: "u:p@tcp(localhost:3306)/alarm"}},
		{name: "unknown driver", cfg: Config{DatabaseDriver: "oracle", DatabaseDSN: "x"}, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("ALARMCLOCK_PORT", "7000")
	t.Setenv("ALARMCLOCK_DB_DRIVER", "mysql")
	t.Setenv("ALARMCLOCK_DB_DSN", "u:p@tcp(db:3306)/alarm")
	t.Setenv("ALARMCLOCK_PRODUCTION", "true")

	cfg := &Config{ServerPort: "8080"}
	cfg.applyEnv()

	if cfg.ServerPort != "7000" || cfg.DatabaseDriver != DriverMySQL || !cfg.Production {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	if cfg.DatabaseDSN != "u:p@tcp(db:3306)/alarm" {
		t.Fatalf("unexpected dsn %q", cfg.DatabaseDSN)
	}
}

func TestEnsureSecrets(t *testing.T) {
	cfg := &Config{}
	if !cfg.ensureSecrets() {
		t.Fatal("expected secrets to be generated")
	}
	if len(cfg.ServerSecret) != 64 || len(cfg.JWTSecret) != 64 {
		t.Fatalf("unexpected secret lengths: %d %d", len(cfg.ServerSecret), len(cfg.JWTSecret))
	}
	if cfg.ensureSecrets() {
		t.Fatal("existing secrets should not be regenerated")
	}
}

func TestBootstrapKeepsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"database_driver":"postgres","database_dsn":"host=db user=x","server_port":"9090",}`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := bootstrap(path); err == nil {
		t.Fatal("expected an error for a malformed config file")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read config back: %v", err)
	}
	if string(data) != content {
		t.Fatalf("malformed config was rewritten:\n%s", data)
	}
}

func TestBootstrapPersistsGeneratedSecrets(t *testing.T) {
	t.Setenv("ALARMCLOCK_PORT", "")
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"server_port":"9090"}`), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := bootstrap(path)
	if err != nil {
		t.Fatalf("bootstrap returned error: %v", err)
	}
	if cfg.ServerPort != "9090" {
		t.Fatalf("port = %q, want 9090", cfg.ServerPort)
	}

	saved, err := Load(path)
	if err != nil {
		t.Fatalf("reloading saved config: %v", err)
	}
	if saved.ServerPort != "9090" || saved.ServerSecret != cfg.ServerSecret || saved.JWTSecret != cfg.JWTSecret {
		t.Fatalf("saved config does not match: %+v", saved)
	}
}
