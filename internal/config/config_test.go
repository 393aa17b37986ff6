package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func clearEnv(t *testing.T) {
	for _, name := range []string{
		"DATABASE_URL", "PORT", "CHARTJS_URL", "GEMINI_API_KEY", "GEMINI_MODEL",
		"REVIEWS_PER_PAGE", "TOP_REVIEWS_LIMIT", "RECOMMENDATIONS_LIMIT",
	} {
		t.Setenv(name, "")
	}
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	path := writeConfig(t, `{
		"database_url": "postgres://localhost/reviews",
		"port": 9090,
		"reviews_per_page": 25
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/reviews", cfg.DatabaseURL)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 25, cfg.ReviewsPerPage)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig("")
	assert.ErrorContains(t, err, "config path is empty")

	_, err = LoadConfig("/nonexistent/path/config.json")
	assert.ErrorContains(t, err, "failed to read config file")

	_, err = LoadConfig(writeConfig(t, `{ invalid json }`))
	assert.ErrorContains(t, err, "failed to parse config JSON")
}

func TestFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://env")
	t.Setenv("PORT", "3000")
	t.Setenv("GEMINI_API_KEY", "key")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "postgres://env", cfg.DatabaseURL)
	assert.Equal(t, 3000, cfg.Port)
	assert.True(t, cfg.ChatEnabled())
	assert.Equal(t, 0, cfg.ReviewsPerPage)
}

func TestFromEnv_InvalidNumber(t *testing.T) {
	clearEnv(t)
	t.Setenv("REVIEWS_PER_PAGE", "ten")

	_, err := FromEnv()
	assert.ErrorContains(t, err, "invalid REVIEWS_PER_PAGE")
}

func TestLoad_EnvOverridesFileOverridesDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://env")
	path := writeConfig(t, `{"database_url": "postgres://file", "port": 9000}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://env", cfg.DatabaseURL)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, DefaultReviewsPerPage, cfg.ReviewsPerPage)
	assert.Equal(t, DefaultTopReviews, cfg.TopReviewsLimit)
	assert.Equal(t, DefaultChartJSURL, cfg.ChartJSURL)
	assert.Equal(t, ":9000", cfg.Addr())
	assert.False(t, cfg.ChatEnabled())
}

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	clearEnv(t)

	_, err := Load("")
	assert.ErrorContains(t, err, "DATABASE_URL is required")
}

func TestValidate(t *testing.T) {
	valid := Defaults()
	valid.DatabaseURL = "postgres://x"

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"port zero", func(c *Config) { c.Port = 0 }, "port out of range"},
		{"port too high", func(c *Config) { c.Port = 70000 }, "port out of range"},
		{"per page too large", func(c *Config) { c.ReviewsPerPage = 101 }, "reviews_per_page"},
		{"top reviews zero", func(c *Config) { c.TopReviewsLimit = 0 }, "top_reviews_limit"},
		{"negative recommendations", func(c *Config) { c.Recommendations = -1 }, "recommendations"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestMergeWithDefaults_KeepsSetValues(t *testing.T) {
	cfg := Config{Port: 1234, GeminiModel: "custom"}
	merged := cfg.MergeWithDefaults(Defaults())

	assert.Equal(t, 1234, merged.Port)
	assert.Equal(t, "custom", merged.GeminiModel)
	assert.Equal(t, DefaultRecommendations, merged.Recommendations)
	assert.Equal(t, 0, cfg.ReviewsPerPage, "receiver must not be modified")
}
