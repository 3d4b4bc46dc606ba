package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"countrydash/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server     ServerConfig
	Data       DataConfig
	Gallery    GalleryConfig
	Screenshot ScreenshotConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port              string
	GinMode           string
	ReadHeaderTimeout time.Duration
}

// DataConfig holds dataset location settings
type DataConfig struct {
	Dir        string
	FileName   string
	Candidates []string
}

// GalleryConfig holds the visualization gallery paths
type GalleryConfig struct {
	StaticDir string
	Sources   []string
}

// ScreenshotConfig holds headless browser capture settings
type ScreenshotConfig struct {
	BaseURL string
	OutDir  string
	Wait    time.Duration
	Width   int
	Height  int
}

// DefaultDatasetCandidates lists where the source CSV is looked up, in order
var DefaultDatasetCandidates = []string{
	"../professor provided/country_data.csv",
	"../../professor provided/country_data.csv",
	"../../data/country_data.csv",
	"../data/country_data.csv",
	"data/country_data.csv",
}

// DefaultVisualizationSources lists directories scanned for pre-rendered images
var DefaultVisualizationSources = []string{
	"../static_visualizations/output_images",
	"../plots",
	"../../plots",
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:     *loadServerConfig(),
		Data:       *loadDataConfig(),
		Gallery:    *loadGalleryConfig(),
		Screenshot: *loadScreenshotConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:              getEnvOrDefault("PORT", "5000"),
		GinMode:           getEnvOrDefault("GIN_MODE", "debug"),
		ReadHeaderTimeout: getEnvDurationOrDefault("READ_HEADER_TIMEOUT", 10*time.Second),
	}
}

func loadDataConfig() *DataConfig {
	return &DataConfig{
		Dir:        getEnvOrDefault("DATA_DIR", "data"),
		FileName:   getEnvOrDefault("DATASET_FILE", "country_data.csv"),
		Candidates: getEnvListOrDefault("DATASET_CANDIDATES", DefaultDatasetCandidates),
	}
}

func loadGalleryConfig() *GalleryConfig {
	return &GalleryConfig{
		StaticDir: getEnvOrDefault("STATIC_DIR", "static"),
		Sources:   getEnvListOrDefault("VISUALIZATION_SOURCES", DefaultVisualizationSources),
	}
}

func loadScreenshotConfig() *ScreenshotConfig {
	return &ScreenshotConfig{
		BaseURL: getEnvOrDefault("SCREENSHOT_BASE_URL", "http://localhost:5000"),
		OutDir:  getEnvOrDefault("SCREENSHOT_DIR", "screenshots"),
		Wait:    getEnvDurationOrDefault("SCREENSHOT_WAIT", 2*time.Second),
		Width:   getEnvIntOrDefault("SCREENSHOT_WIDTH", 1920),
		Height:  getEnvIntOrDefault("SCREENSHOT_HEIGHT", 1080),
	}
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	if _, err := strconv.Atoi(config.Server.Port); err != nil {
		return errors.ConfigInvalid("PORT must be numeric")
	}
	if config.Data.Dir == "" || config.Data.FileName == "" {
		return errors.ConfigInvalid("DATA_DIR and DATASET_FILE are required")
	}
	if config.Gallery.StaticDir == "" {
		return errors.ConfigInvalid("STATIC_DIR is required")
	}
	if config.Screenshot.Width <= 0 || config.Screenshot.Height <= 0 {
		return errors.ConfigInvalid("screenshot dimensions must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvListOrDefault splits a comma separated variable, dropping blank entries
func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return append([]string(nil), defaultValue...)
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return append([]string(nil), defaultValue...)
	}
	return items
}
