package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Envapa08241978/soynexo-servidor-final/services/leak"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 10*time.Second, cfg.PlacesTimeout)
	assert.Equal(t, 8*time.Second, cfg.ClassifyTimeout)
	assert.Equal(t, 30*time.Second, cfg.NarrativeTimeout)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, leak.DefaultPolicy(), cfg.LeakPolicy())
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("CLASSIFY_TIMEOUT", "2s")
	t.Setenv("PLACES_RPS", "2.5")
	t.Setenv("ALLOWED_ORIGINS", "https://soynexo.com, https://www.soynexo.com")
	t.Setenv("LEAK_NO_WEBSITE_MIN", "20000")
	t.Setenv("LEAK_REVIEW_THRESHOLD", "50")
	t.Setenv("LEAK_SERVICE_CATEGORIES", "dentist,lawyer")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.AppPort)
	assert.Equal(t, 2*time.Second, cfg.ClassifyTimeout)
	assert.Equal(t, 2.5, cfg.PlacesRPS)
	assert.Equal(t, []string{"https://soynexo.com", "https://www.soynexo.com"}, cfg.AllowedOrigins)

	policy := cfg.LeakPolicy()
	assert.Equal(t, 20000.0, policy.NoWebsite.Min)
	assert.Equal(t, 50, policy.ReviewThreshold)
	assert.Equal(t, []string{"dentist", "lawyer"}, policy.ServiceCategories)
}

func TestLoadConfig_PortFallback(t *testing.T) {
	t.Setenv("PORT", "3000")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.AppPort)
}

func TestValidate_RequiresBothKeys(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOOGLE_MAPS_API_KEY")
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")

	cfg.GoogleMapsAPIKey = "maps"
	cfg.GeminiAPIKey = "gemini"
	assert.NoError(t, cfg.Validate())
}
