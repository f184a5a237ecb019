package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	OutfitSourcePostgres  = "postgres"
	OutfitSourcePostgREST = "postgrest"
)

type Config struct {
	// Auth
	JWTSecret string
	JWTTTL    time.Duration

	// Supabase
	SupabaseURL            string
	SupabasePublishableKey string
	SupabaseStorageBucket  string

	// Database
	DatabaseURL  string
	OutfitSource string

	// Image generation API
	ImageAPIBaseURL string
	ImageAPIKey     string
	ImageAPIModel   string
	TryOnPerMinute  int

	// Server
	Port        string
	Environment string
	BaseURL     string
}

// Load reads the configuration from the environment. Outside production a
// .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	if os.Getenv("ENVIRONMENT") != "production" {
		_ = godotenv.Load()
	}

	cfg := &Config{
		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTTTL:    time.Duration(getEnvInt("JWT_TTL_HOURS", 72)) * time.Hour,

		SupabaseURL:            getEnv("SUPABASE_URL", ""),
		SupabasePublishableKey: getEnv("SUPABASE_PUBLISHABLE_KEY", ""),
		SupabaseStorageBucket:  getEnv("SUPABASE_STORAGE_BUCKET", "outfit-images"),

		DatabaseURL:  getEnv("DATABASE_URL", ""),
		OutfitSource: getEnv("OUTFIT_SOURCE", OutfitSourcePostgres),

		ImageAPIBaseURL: getEnv("IMAGE_API_BASE_URL", "https://api.openai.com/v1/"),
		ImageAPIKey:     getEnv("IMAGE_API_KEY", ""),
		ImageAPIModel:   getEnv("IMAGE_API_MODEL", "gpt-image-1"),
		TryOnPerMinute:  getEnvInt("TRYON_RATE_PER_MINUTE", 6),

		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.SupabaseURL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.SupabasePublishableKey == "" {
		return fmt.Errorf("SUPABASE_PUBLISHABLE_KEY is required")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.ImageAPIKey == "" {
		return fmt.Errorf("IMAGE_API_KEY is required")
	}
	if c.OutfitSource != OutfitSourcePostgres && c.OutfitSource != OutfitSourcePostgREST {
		return fmt.Errorf("OUTFIT_SOURCE must be %q or %q", OutfitSourcePostgres, OutfitSourcePostgREST)
	}
	if c.TryOnPerMinute <= 0 {
		return fmt.Errorf("TRYON_RATE_PER_MINUTE must be positive")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
