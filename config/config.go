package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config holds the full server configuration. Values come from an optional
// YAML file; any field left empty falls back to environment variables at the
// point of use via GetEnv.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Postgres  PostgresConfig  `yaml:"database"`
	Inference InferenceConfig `yaml:"inference"`
	JWTSecret string          `yaml:"jwt_secret"`
}

type ServerConfig struct {
	Port           string   `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type PostgresConfig struct {
	Host     string `yaml:"host"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	Port     string `yaml:"port"`
	SSLMode  string `yaml:"sslmode"`
}

type InferenceConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
}

// Load reads the YAML config file. A missing file is not an error: callers
// get a zero Config and every value resolves through env vars instead.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

// GetEnv returns the environment variable value or a default when unset.
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// Resolve returns the configured value, falling back to an env var and then
// a default.
func Resolve(configured, envKey, fallback string) string {
	if configured != "" {
		return configured
	}
	return GetEnv(envKey, fallback)
}
