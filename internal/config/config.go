package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Host storage (optional; mutations are pushed when set)
	HostSyncURL    string
	HostSyncAPIKey string

	// Authoring defaults
	DefaultSpeaker string

	// Session eviction
	SessionTTL time.Duration

	// Upload limits
	MaxUploadBytes int64

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("LESSONSCRIPT_API_KEY"),

		HostSyncURL:    os.Getenv("HOSTSYNC_URL"),
		HostSyncAPIKey: os.Getenv("HOSTSYNC_API_KEY"),

		DefaultSpeaker: envOr("DEFAULT_SPEAKER", "Narrator"),

		SessionTTL: envDuration("SESSION_TTL", 12*time.Hour),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 12 * time.Hour
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.DefaultSpeaker == "" {
		cfg.DefaultSpeaker = "Narrator"
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("LESSONSCRIPT_API_KEY is required")
	}
	if c.HostSyncURL != "" && c.HostSyncAPIKey == "" {
		return fmt.Errorf("HOSTSYNC_API_KEY is required when HOSTSYNC_URL is set")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
