// internal/config/config.go
//
// Environment configuration for the word-of-the-day server.
// Responsibilities:
//   - Read all settings from the environment (godotenv is loaded by main).
//   - Shape-check the backing-service credentials (URL scheme, key prefix).
//   - Decide whether the process runs live or in degraded/demo mode.
//
// Credential validation is format-level only — a well-shaped but wrong key
// still passes here and fails at the store. Missing or malformed credentials
// never abort startup; they select demo mode instead.

package config

import (
	"os"
	"strconv"
	"strings"
)

// Config carries every environment-derived setting.
type Config struct {
	ServiceURL       string // backing service endpoint, must start with https://
	ServiceAnonKey   string // anonymous API key, must start with eyJ
	DBPath           string // sqlite path backing the service data
	JWTSecret        string
	JWTExpiresDays   int
	CookieName       string
	Port             string
	ClientOrigin     string
	LogLevel         string
	DictionaryAPIURL string // empty selects the public dictionary API
}

// Load reads the configuration from the environment with defaults.
func Load() Config {
	return Config{
		ServiceURL:       os.Getenv("WOTD_SERVICE_URL"),
		ServiceAnonKey:   os.Getenv("WOTD_SERVICE_ANON_KEY"),
		DBPath:           getEnv("DB_PATH", "./data/wotd.db"),
		JWTSecret:        getEnv("JWT_SECRET", "dev_secret_change_me"),
		JWTExpiresDays:   envInt("JWT_EXPIRES_DAYS", 14),
		CookieName:       getEnv("COOKIE_NAME", "wotd_token"),
		Port:             getEnv("PORT", "5180"),
		ClientOrigin:     getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		DictionaryAPIURL: os.Getenv("DICTIONARY_API_URL"),
	}
}

// Validate returns human-readable problems with the service credentials.
// An empty slice means the credentials are well-shaped.
func (c Config) Validate() []string {
	var errs []string
	if c.ServiceURL == "" {
		errs = append(errs, "WOTD_SERVICE_URL is not set")
	} else if !strings.HasPrefix(c.ServiceURL, "https://") {
		errs = append(errs, "WOTD_SERVICE_URL must start with https://")
	}
	if c.ServiceAnonKey == "" {
		errs = append(errs, "WOTD_SERVICE_ANON_KEY is not set")
	} else if !strings.HasPrefix(c.ServiceAnonKey, "eyJ") {
		errs = append(errs, "WOTD_SERVICE_ANON_KEY appears to be invalid (should start with eyJ)")
	}
	return errs
}

// Configured reports whether the backing service credentials are present and
// well-shaped. When false the server runs in degraded/demo mode.
func (c Config) Configured() bool { return len(c.Validate()) == 0 }

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
