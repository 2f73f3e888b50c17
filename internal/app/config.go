package app

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/brightclass/brightclass-backend/internal/platform/envutil"
	"github.com/brightclass/brightclass-backend/internal/platform/logger"
)

// Config is loaded from an optional YAML file and then overridden by
// environment variables, so container deployments need no file at all.
type Config struct {
	Port         string `yaml:"port"`
	Environment  string `yaml:"environment"`
	Version      string `yaml:"version"`
	JWTSecretKey string `yaml:"jwt_secret_key"`
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:        "8080",
		Environment: "development",
	}

	path := envutil.Str("CONFIG_FILE", "config.yaml")
	if raw, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			log.Warn("config file unreadable, falling back to env", "path", path, "error", err)
		} else {
			log.Info("config file loaded", "path", path)
		}
	}

	cfg.Port = envutil.Str("PORT", cfg.Port)
	cfg.Environment = envutil.Str("ENVIRONMENT", cfg.Environment)
	cfg.Version = envutil.Str("VERSION", cfg.Version)
	cfg.JWTSecretKey = envutil.Str("JWT_SECRET_KEY", cfg.JWTSecretKey)
	return cfg
}

func (c Config) Validate() error {
	if c.JWTSecretKey == "" {
		return fmt.Errorf("jwt secret key is required")
	}
	return nil
}
