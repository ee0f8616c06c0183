// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"os"
)

// Config is everything the binaries read from the environment. Notion
// settings are optional; the mirror simply stays off without them.
type Config struct {
	Port      string
	ProjectID string

	GCSBucket string
	BQDataset string

	Currency    string
	GeminiModel string

	NotionToken string
	NotionDBID  string
}

// Load reads the environment. Call godotenv.Load first in main if a .env
// file should participate.
func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		ProjectID:   os.Getenv("GOOGLE_PROJECT_ID"),
		GCSBucket:   os.Getenv("GCS_BUCKET"),
		BQDataset:   getEnv("BQ_DATASET", "finance"),
		Currency:    getEnv("CURRENCY", "PKR"),
		GeminiModel: os.Getenv("GEMINI_MODEL"),
		NotionToken: os.Getenv("NOTION_TOKEN"),
		NotionDBID:  os.Getenv("NOTION_DB_ID"),
	}
}

// Validate checks the settings the API server cannot run without.
func (c *Config) Validate() error {
	if c.ProjectID == "" {
		return fmt.Errorf("GOOGLE_PROJECT_ID is required")
	}
	if c.GCSBucket == "" {
		return fmt.Errorf("GCS_BUCKET is required")
	}
	if (c.NotionToken == "") != (c.NotionDBID == "") {
		return fmt.Errorf("NOTION_TOKEN and NOTION_DB_ID must be set together")
	}
	return nil
}

// NotionEnabled reports whether the Notion mirror is configured.
func (c *Config) NotionEnabled() bool {
	return c.NotionToken != "" && c.NotionDBID != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
