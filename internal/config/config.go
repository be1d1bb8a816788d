package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath          string
	Port            int
	AdminToken      string
	LogLevel        string
	LogFormat       string
	CORSOrigins     []string
	SessionLifetime time.Duration
}

func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// LoadEnvFile loads .env into the environment if there is one. It reports whether a file was
// found.
func LoadEnvFile(paths ...string) bool {
	return godotenv.Load(paths...) == nil
}

// Load reads the configuration from the environment, falling back to defaults for anything
// unset.
func Load() (Config, error) {
	cfg := Config{
		DBPath:     getEnv("DB_PATH", "brackets.db"),
		AdminToken: os.Getenv("ADMIN_TOKEN"),
		LogLevel:   strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:  strings.ToLower(getEnv("LOG_FORMAT", "text")),
	}

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil || port <= 0 || port > 65535 {
		return Config{}, fmt.Errorf("invalid PORT %q", os.Getenv("PORT"))
	}
	cfg.Port = port

	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return Config{}, fmt.Errorf("invalid LOG_FORMAT %q, expected text or json", cfg.LogFormat)
	}

	lifetime, err := time.ParseDuration(getEnv("SESSION_LIFETIME", "24h"))
	if err != nil || lifetime <= 0 {
		return Config{}, fmt.Errorf("invalid SESSION_LIFETIME %q", os.Getenv("SESSION_LIFETIME"))
	}
	cfg.SessionLifetime = lifetime

	for _, origin := range strings.Split(os.Getenv("CORS_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
