package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"
)

type Config struct {
	Server struct {
		Host string `json:"host"`
		Port int    `json:"port"`
	} `json:"server"`
	Postgres struct {
		DSN string `json:"dsn"`
	} `json:"postgres"`
	Redis struct {
		Addr     string `json:"addr"`
		Password string `json:"password"`
		DB       int    `json:"db"`
	} `json:"redis"`

	// SecurityDir holds the password salt and JWT signing keys.
	SecurityDir string `json:"securityDir"`
	// PublicContent is served as the client root.
	PublicContent string `json:"publicContent"`
	// AdminUsernames are promoted to admin at signup time.
	AdminUsernames []string `json:"adminUsernames"`
}

var (
	once   sync.Once
	cfg    *Config
	cfgErr error
)

func defaults() *Config {
	var c Config
	c.Server.Host = "0.0.0.0"
	c.Server.Port = 8000
	c.Postgres.DSN = "host=localhost user=knowmark dbname=knowmark port=5432"
	c.Redis.Addr = "localhost:6379"
	c.SecurityDir = "./security"
	c.PublicContent = "./public"
	c.AdminUsernames = []string{"admin"}
	return &c
}

// applyEnv lets deployment environment variables override file values.
func applyEnv(c *Config) {
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		c.Postgres.DSN = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("SECURITY_DIR"); v != "" {
		c.SecurityDir = v
	}
	if v := os.Getenv("PUBLIC_CONTENT_PATH"); v != "" {
		c.PublicContent = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
}

// LoadConfig reads the JSON config from disk (singleton). A missing
// file is not an error: every field has a usable default and can be
// overridden from the environment.
func LoadConfig(path string) (*Config, error) {
	once.Do(func() {
		c := defaults()
		raw, err := os.ReadFile(path)
		if err == nil {
			if err := json.Unmarshal(raw, c); err != nil {
				cfgErr = fmt.Errorf("invalid config format: %w", err)
				return
			}
		} else if !os.IsNotExist(err) {
			cfgErr = fmt.Errorf("failed to read config file: %w", err)
			return
		}
		applyEnv(c)
		cfg = c
	})
	return cfg, cfgErr
}

// GetConfig returns the loaded config (must call LoadConfig first)
func GetConfig() *Config {
	return cfg
}

// ResetConfigForTest resets the singleton state (for testing only)
func ResetConfigForTest() {
	once = sync.Once{}
	cfg = nil
	cfgErr = nil
}
