package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	GitHub   GitHubConfig
	Search   SearchConfig
}

type ServerConfig struct {
	Port         string
	Mode         string
	ReadTimeout  int
	WriteTimeout int
}

type DatabaseConfig struct {
	Path string
}

type GitHubConfig struct {
	Token string
}

type SearchConfig struct {
	MinStars     int
	MaxStars     int
	DefaultLimit int
	DaysFilter   int
	TargetCount  int
	MaxAttempts  int

	// Recognized but advisory: the pass/fail criteria are license, star
	// ceiling and Python share. The estimate bounds are kept so existing
	// environment files keep loading.
	MinPyFiles int
	MaxPyFiles int

	AllowedLicenses []string
}

// DefaultAllowedLicenses is the built-in license allow-list. Entries are
// matched against candidate SPDX identifiers after normalization, so
// "MIT License" and "mit" both match "MIT".
var DefaultAllowedLicenses = []string{
	"MIT",
	"Apache-1.0",
	"Apache-1.1",
	"Apache-2.0",
	"BSD-1-Clause",
	"BSD-2-Clause",
	"BSD-2-Clause-FreeBSD",
	"BSD-2-Clause-Patent",
	"BSD-2-Clause-Views",
	"BSD-3-Clause",
	"BSD-3-Clause-Attribution",
	"BSD-3-Clause-LBNL",
	"BSD-3-Clause-Modification",
	"BSD-4-Clause",
	"BSD-4-Clause-UC",
	"BSD-Source-Code",
	"BSL-1.0",
	"CC-BY-1.0",
	"CC-BY-2.0",
	"CC-BY-2.5",
	"CC-BY-3.0",
	"CC-BY-4.0",
	"GPL-2.0-with-classpath-exception",
	"GPL-3.0-with-autoconf-exception",
}

// Load loads configuration from .env file and environment variables.
// Precedence is explicit caller overrides > environment > built-in defaults;
// callers get a value, not a package global.
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Mode:         getEnv("GIN_MODE", "release"),
			ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 15),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./reposcout.db"),
		},
		GitHub: GitHubConfig{
			Token: getEnv("GITHUB_TOKEN", ""),
		},
		Search: SearchConfig{
			MinStars:        getEnvAsInt("MIN_STARS", 500),
			MaxStars:        getEnvAsInt("MAX_STARS", 50000),
			DefaultLimit:    getEnvAsInt("DEFAULT_LIMIT", 100),
			DaysFilter:      getEnvAsInt("DAYS_FILTER", 7),
			TargetCount:     getEnvAsInt("TARGET_COUNT", 3),
			MaxAttempts:     getEnvAsInt("MAX_ATTEMPTS", 3),
			MinPyFiles:      getEnvAsInt("MIN_PY_FILES", 15),
			MaxPyFiles:      getEnvAsInt("MAX_PY_FILES", 100),
			AllowedLicenses: getEnvAsList("ALLOWED_LICENSES", DefaultAllowedLicenses),
		},
	}

	return cfg, nil
}

// DefaultUserID resolves the user identity used when no explicit user is
// provided: the system username, falling back to "default_user".
func DefaultUserID() string {
	if user := os.Getenv("USER"); user != "" {
		return user
	}
	if user := os.Getenv("USERNAME"); user != "" {
		return user
	}
	return "default_user"
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsList gets a comma-separated environment variable or returns a default value
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
