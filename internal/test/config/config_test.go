package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"outfit-studio/internal/config"
)

func validConfig() *config.Config {
	return &config.Config{
		JWTSecret:              "secret",
		SupabaseURL:            "https://project.supabase.co",
		SupabasePublishableKey: "key",
		DatabaseURL:            "postgres://localhost/outfits",
		OutfitSource:           config.OutfitSourcePostgres,
		ImageAPIKey:            "image-key",
		TryOnPerMinute:         6,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{"valid", func(*config.Config) {}, ""},
		{"postgrest source", func(c *config.Config) { c.OutfitSource = config.OutfitSourcePostgREST }, ""},
		{"missing jwt secret", func(c *config.Config) { c.JWTSecret = "" }, "JWT_SECRET"},
		{"missing supabase url", func(c *config.Config) { c.SupabaseURL = "" }, "SUPABASE_URL"},
		{"missing supabase key", func(c *config.Config) { c.SupabasePublishableKey = "" }, "SUPABASE_PUBLISHABLE_KEY"},
		{"missing database url", func(c *config.Config) { c.DatabaseURL = "" }, "DATABASE_URL"},
		{"missing image key", func(c *config.Config) { c.ImageAPIKey = "" }, "IMAGE_API_KEY"},
		{"unknown outfit source", func(c *config.Config) { c.OutfitSource = "mongo" }, "OUTFIT_SOURCE"},
		{"zero rate", func(c *config.Config) { c.TryOnPerMinute = 0 }, "TRYON_RATE_PER_MINUTE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func setRequired(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("SUPABASE_URL", "https://project.supabase.co")
	t.Setenv("SUPABASE_PUBLISHABLE_KEY", "key")
	t.Setenv("DATABASE_URL", "postgres://localhost/outfits")
	t.Setenv("IMAGE_API_KEY", "image-key")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "")
	t.Setenv("OUTFIT_SOURCE", "")
	t.Setenv("JWT_TTL_HOURS", "")
	t.Setenv("TRYON_RATE_PER_MINUTE", "")
	t.Setenv("SUPABASE_STORAGE_BUCKET", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, config.OutfitSourcePostgres, cfg.OutfitSource)
	assert.Equal(t, 72*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 6, cfg.TryOnPerMinute)
	assert.Equal(t, "outfit-images", cfg.SupabaseStorageBucket)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "9090")
	t.Setenv("OUTFIT_SOURCE", config.OutfitSourcePostgREST)
	t.Setenv("JWT_TTL_HOURS", "1")
	t.Setenv("TRYON_RATE_PER_MINUTE", "not-a-number")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, config.OutfitSourcePostgREST, cfg.OutfitSource)
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.Equal(t, 6, cfg.TryOnPerMinute)
}

func TestLoad_Invalid(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}
