package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultDBPath   = "./dev.db"
	defaultPort     = "8080"
	defaultEnv      = "dev"
	defaultLogLevel = "info"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Env            string
	AccessPassword string
	SessionSecret  string
	DBPath         string
	Port           string
	LogLevel       string
	LogPretty      bool
	SeedExample    bool
}

// Load reads environment variables and returns a populated Config along with
// warnings about missing or invalid settings. Loading happens before the
// logger exists, so the caller logs the warnings.
func Load() (Config, []string) {
	return load(".env")
}

func load(dotenvPath string) (Config, []string) {
	// Missing file is fine; godotenv never overrides variables already set.
	_ = godotenv.Load(dotenvPath)

	var warnings []string
	cfg := Config{
		Env:            os.Getenv("APP_ENV"),
		AccessPassword: os.Getenv("ACCESS_PASSWORD"),
		SessionSecret:  os.Getenv("SESSION_SECRET"),
		DBPath:         os.Getenv("DB_PATH"),
		Port:           os.Getenv("PORT"),
		LogLevel:       os.Getenv("LOG_LEVEL"),
	}

	if cfg.Env == "" {
		cfg.Env = defaultEnv
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}
	cfg.LogPretty = boolEnv("LOG_PRETTY", cfg.IsDev(), &warnings)
	cfg.SeedExample = boolEnv("SEED_EXAMPLE", cfg.IsDev(), &warnings)

	if cfg.AccessPassword == "" {
		warnings = append(warnings, "ACCESS_PASSWORD is not set")
	}
	if cfg.SessionSecret == "" {
		warnings = append(warnings, "SESSION_SECRET is not set")
	}

	return cfg, warnings
}

// IsDev reports whether the app runs in local development mode.
func (c Config) IsDev() bool {
	return strings.EqualFold(c.Env, "dev") || strings.EqualFold(c.Env, "development")
}

func boolEnv(key string, fallback bool, warnings *[]string) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		*warnings = append(*warnings, fmt.Sprintf("ignoring invalid boolean %s=%q", key, raw))
		return fallback
	}
	return v
}
