package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Defaults shipped for local development only; production refuses them.
const (
	DefaultAdminPassword = "admin123"
	DefaultJWTSecret     = "fallback_secret"
)

// Config holds all configuration for the application.
type Config struct {
	Port      string
	Env       string
	PublicURL string
	StaticDir string

	// Catalog storage
	StoreBackend string // "file", "sqlite" or "postgres"
	DataFile     string
	SQLitePath   string
	DatabaseURL  string
	RedisURL     string

	// Admin auth
	AdminPassword     string
	AdminPasswordHash string
	JWTSecret         string
	TokenTTL          time.Duration
	LoginRateLimit    int // attempts per minute per IP

	// Verse/search provider
	AIAPIKey  string
	AIBaseURL string
	AIModel   string

	CORSOrigins []string
}

// Load reads configuration from environment variables.
// In development, it loads from .env file if present.
// In production, it panics on default secrets or a missing backend URL.
func Load() *Config {
	// Load .env file if it exists (for development)
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getEnv("PORT", "3000"),
		Env:               getEnv("ENV", "development"),
		PublicURL:         strings.TrimRight(os.Getenv("PUBLIC_URL"), "/"),
		StaticDir:         getEnv("STATIC_DIR", "./dist"),
		StoreBackend:      getEnv("STORE_BACKEND", "file"),
		DataFile:          getEnv("DATA_FILE", "./data.json"),
		SQLitePath:        getEnv("SQLITE_PATH", "./data/vithai.db"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisURL:          os.Getenv("REDIS_URL"),
		AdminPassword:     getEnv("ADMIN_PASSWORD", DefaultAdminPassword),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		JWTSecret:         getEnv("JWT_SECRET", DefaultJWTSecret),
		TokenTTL:          getDuration("TOKEN_TTL", 7*24*time.Hour),
		LoginRateLimit:    getInt("LOGIN_RATE_LIMIT", 10),
		AIAPIKey:          os.Getenv("AI_API_KEY"),
		AIBaseURL:         os.Getenv("AI_BASE_URL"),
		AIModel:           getEnv("AI_MODEL", "gpt-4o-mini"),
	}

	// Parse allowed origins (comma-separated)
	for _, entry := range strings.Split(getEnv("CORS_ORIGINS", "*"), ",") {
		entry = strings.TrimSpace(entry)
		if entry != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, entry)
		}
	}

	if cfg.Env == "production" {
		if err := cfg.validateProduction(); err != "" {
			panic(err)
		}
	}

	return cfg
}

func (c *Config) validateProduction() string {
	if c.JWTSecret == DefaultJWTSecret {
		return "JWT_SECRET is required in production"
	}
	if c.AdminPasswordHash == "" && c.AdminPassword == DefaultAdminPassword {
		return "ADMIN_PASSWORD or ADMIN_PASSWORD_HASH is required in production"
	}
	if c.StoreBackend == "postgres" && c.DatabaseURL == "" {
		return "DATABASE_URL is required for the postgres backend"
	}
	return ""
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ProviderEnabled reports whether an AI key is configured.
func (c *Config) ProviderEnabled() bool {
	return c.AIAPIKey != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil && n > 0 {
		return n
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return defaultValue
}
