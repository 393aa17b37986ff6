// Package config provides configuration loading and validation for the review portal.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Defaults applied when neither the environment nor the config file sets a value.
const (
	DefaultPort            = 8080
	DefaultReviewsPerPage  = 10
	DefaultTopReviews      = 10
	DefaultRecommendations = 5
	DefaultGeminiModel     = "gemini-1.5-flash"
	DefaultChartJSURL      = "https://cdn.jsdelivr.net/npm/chart.js@4.4.1/dist/chart.umd.min.js"

	// MaxReviewsPerPage caps the per_page query parameter.
	MaxReviewsPerPage = 100
)

// Config holds the server settings. Values come from the environment and may be
// supplemented by a JSON file; the environment wins.
type Config struct {
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	Port        int    `json:"port,omitempty"`

	// Dashboard
	ChartJSURL      string `json:"chartjs_url,omitempty"` // Chart.js bundle loaded by the dashboard page
	ReviewsPerPage  int    `json:"reviews_per_page,omitempty"`
	TopReviewsLimit int    `json:"top_reviews_limit,omitempty"`
	Recommendations int    `json:"recommendations,omitempty"`

	// Review chat
	GeminiAPIKey string `json:"gemini_api_key,omitempty"`
	GeminiModel  string `json:"gemini_model,omitempty"`
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv reads the configuration from environment variables. Unset variables
// leave fields zero so a config file or the defaults can fill them.
func FromEnv() (*Config, error) {
	cfg := &Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		ChartJSURL:   os.Getenv("CHARTJS_URL"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  os.Getenv("GEMINI_MODEL"),
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"PORT", &cfg.Port},
		{"REVIEWS_PER_PAGE", &cfg.ReviewsPerPage},
		{"TOP_REVIEWS_LIMIT", &cfg.TopReviewsLimit},
		{"RECOMMENDATIONS_LIMIT", &cfg.Recommendations},
	}
	for _, v := range ints {
		raw := strings.TrimSpace(os.Getenv(v.name))
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %v", v.name, err)
		}
		*v.dst = n
	}

	return cfg, nil
}

// Load builds the effective configuration: environment first, then the optional
// JSON file at path, then built-in defaults. The result is validated.
func Load(path string) (*Config, error) {
	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}

	if path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		merged := cfg.MergeWithDefaults(*fileCfg)
		cfg = &merged
	}

	merged := cfg.MergeWithDefaults(Defaults())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// Defaults returns the built-in configuration values.
func Defaults() Config {
	return Config{
		Port:            DefaultPort,
		ChartJSURL:      DefaultChartJSURL,
		ReviewsPerPage:  DefaultReviewsPerPage,
		TopReviewsLimit: DefaultTopReviews,
		Recommendations: DefaultRecommendations,
		GeminiModel:     DefaultGeminiModel,
	}
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("config error: DATABASE_URL is required")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: port out of range: %d", c.Port)
	}
	if c.ReviewsPerPage < 1 || c.ReviewsPerPage > MaxReviewsPerPage {
		return fmt.Errorf("config error: 'reviews_per_page' must be between 1 and %d", MaxReviewsPerPage)
	}
	if c.TopReviewsLimit < 1 {
		return fmt.Errorf("config error: 'top_reviews_limit' must be positive")
	}
	if c.Recommendations < 0 {
		return fmt.Errorf("config error: 'recommendations' must be non-negative")
	}
	return nil
}

// ChatEnabled reports whether a Gemini API key is configured.
func (c *Config) ChatEnabled() bool {
	return c.GeminiAPIKey != ""
}

// Addr returns the listen address for the configured port.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// MergeWithDefaults returns a new Config with zero fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.ChartJSURL == "" {
		result.ChartJSURL = defaults.ChartJSURL
	}
	if result.GeminiAPIKey == "" {
		result.GeminiAPIKey = defaults.GeminiAPIKey
	}
	if result.GeminiModel == "" {
		result.GeminiModel = defaults.GeminiModel
	}

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.ReviewsPerPage == 0 {
		result.ReviewsPerPage = defaults.ReviewsPerPage
	}
	if result.TopReviewsLimit == 0 {
		result.TopReviewsLimit = defaults.TopReviewsLimit
	}
	if result.Recommendations == 0 {
		result.Recommendations = defaults.Recommendations
	}

	return result
}
