package config

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

type Config struct {
	ServerPort          string `json:"server_port"`
	DatabaseDriver      string `json:"database_driver"`
	DatabasePath        string `json:"database_path"`
	DatabaseDSN         string `json:"database_dsn"`
	ServerSecret        string `json:"server_secret"`
	JWTSecret           string `json:"jwt_secret"`
	Production          bool   `json:"production"`
	StaticDir           string `json:"static_dir"`
	AllowOrigins        string `json:"allow_origins"`
	LogLevel            string `json:"log_level"`
	LogFile             string `json:"log_file"`
	GormLogLevel        string `json:"gorm_log_level"`
	ChallengeTTLMinutes int    `json:"challenge_ttl_minutes"`
	ProVerifyDelayMs    int    `json:"pro_verify_delay_ms"`
	SeedAlarms          *bool  `json:"seed_alarms,omitempty"`
}

var (
	instance *Config
	loadErr  error
	once     sync.Once
)

func generateSecret(length int) string {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		panic(err)
	}
	return hex.EncodeToString(bytes)
}

func configDir() string {
	if dir := os.Getenv("ALARMCLOCK_CONFIG_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".alarmclock")
}

// Path is where GetConfig reads and persists the configuration file.
func Path() string {
	return filepath.Join(configDir(), "config.json")
}

// Load reads a config file and fills defaults. A missing file is not an
// error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, err
	}
	cfg.applyDefaults(filepath.Dir(path))
	return cfg, nil
}

func (c *Config) applyDefaults(dir string) {
	if c.ServerPort == "" {
		c.ServerPort = "8080"
	}
	if c.DatabaseDriver == "" {
		c.DatabaseDriver = DriverSQLite
	}
	if c.DatabasePath == "" {
		c.DatabasePath = filepath.Join(dir, "alarmclock.db")
	}
	if c.StaticDir == "" {
		c.StaticDir = "./static"
	}
	if c.AllowOrigins == "" {
		c.AllowOrigins = "http://localhost:5173,http://localhost:3000,http://localhost:8080"
	}
	if c.ChallengeTTLMinutes <= 0 {
		c.ChallengeTTLMinutes = 10
	}
	if c.ProVerifyDelayMs <= 0 {
		c.ProVerifyDelayMs = 2000
	}
	if c.SeedAlarms == nil {
		seed := true
		c.SeedAlarms = &seed
	}
}

// ensureSecrets generates missing secrets and reports whether any were added.
func (c *Config) ensureSecrets() bool {
	changed := false
	if c.ServerSecret == "" {
		c.ServerSecret = generateSecret(32)
		changed = true
	}
	if c.JWTSecret == "" {
		c.JWTSecret = generateSecret(32)
		changed = true
	}
	return changed
}

func (c *Config) applyEnv() {
	if v := os.Getenv("ALARMCLOCK_PORT"); v != "" {
		c.ServerPort = v
	}
	if v := os.Getenv("ALARMCLOCK_DB_DRIVER"); v != "" {
		c.DatabaseDriver = v
	}
	if v := os.Getenv("ALARMCLOCK_DB_PATH"); v != "" {
		c.DatabasePath = v
	}
	if v := os.Getenv("ALARMCLOCK_DB_DSN"); v != "" {
		c.DatabaseDSN = v
	}
	if os.Getenv("ALARMCLOCK_PRODUCTION") == "true" {
		c.Production = true
	}
	if v := os.Getenv("ALARMCLOCK_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case DriverSQLite:
		if c.DatabasePath == "" {
			return errors.New("database_path is required for sqlite")
		}
	case DriverPostgres, DriverMySQL:
		if c.DatabaseDSN == "" {
			return fmt.Errorf("database_dsn is required for %s", c.DatabaseDriver)
		}
	default:
		return fmt.Errorf("unsupported database_driver %q", c.DatabaseDriver)
	}
	return nil
}

func (c *Config) ChallengeTTL() time.Duration {
	return time.Duration(c.ChallengeTTLMinutes) * time.Minute
}

func (c *Config) ProVerifyDelay() time.Duration {
	return time.Duration(c.ProVerifyDelayMs) * time.Millisecond
}

func (c *Config) ShouldSeed() bool {
	return c.SeedAlarms != nil && *c.SeedAlarms
}

// GetConfig returns the process-wide configuration. Secrets are generated
// and written back on first start; env vars override the file. A file that
// fails to parse is left untouched and reported by LoadError.
func GetConfig() *Config {
	once.Do(func() {
		// .env is optional
		_ = godotenv.Load()

		instance, loadErr = bootstrap(Path())
	})

	return instance
}

// LoadError is the error GetConfig hit reading the config file, if any.
func LoadError() error {
	GetConfig()
	return loadErr
}

func bootstrap(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		cfg = &Config{}
		cfg.applyDefaults(filepath.Dir(path))
		cfg.ensureSecrets()
		cfg.applyEnv()
		return cfg, err
	}
	if cfg.ensureSecrets() {
		_ = cfg.saveTo(path)
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) Save() error {
	return c.saveTo(Path())
}

func (c *Config) saveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}
