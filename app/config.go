package app

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"meetzzz-customizer/db"
	"meetzzz-customizer/session"
)

const (
	defaultBrand = "Meetzzz"

	// each session allocates a CanvasSize x CanvasSize surface
	minCanvasSize = 256
	maxCanvasSize = 4096
)

// Config holds the settings read from the environment
type Config struct {
	BaseURL            string
	Brand              string
	CanvasSize         int
	TablesPath         string
	CredentialsPath    string
	FontsFolderID      string
	SessionMaxAge      time.Duration
	SnapshotsEnabled   bool
	Database           db.Settings
}

// LoadConfig reads Config from environment variables, falling back to defaults
func LoadConfig() Config {
	cfg := Config{
		BaseURL:         strings.TrimSuffix(os.Getenv("BASE_URL"), "/"),
		Brand:           os.Getenv("BRAND_NAME"),
		CanvasSize:      clampCanvasSize(envInt("CANVAS_SIZE", session.DefaultCanvasSize)),
		TablesPath:      os.Getenv("CUSTOMIZER_CONFIG_PATH"),
		CredentialsPath: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		FontsFolderID:   os.Getenv("DRIVE_FONTS_FOLDER_ID"),
		SessionMaxAge:   envDuration("SESSION_MAX_AGE", session.DefaultMaxAge),
		Database: db.Settings{
			URL:      os.Getenv("DATABASE_URL"),
			Host:     os.Getenv("DB_HOST"),
			Port:     os.Getenv("DB_PORT"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
			SSLMode:  os.Getenv("DB_SSLMODE"),
		},
	}

	if cfg.Brand == "" {
		cfg.Brand = defaultBrand
	}
	if cfg.BaseURL == "" {
		port := strings.TrimPrefix(os.Getenv("PORT"), ":")
		if port == "" {
			port = "8080"
		}
		cfg.BaseURL = "http://localhost:" + port
	}
	cfg.SnapshotsEnabled = os.Getenv("SNAPSHOTS_DISABLED") != "true"

	return cfg
}

func clampCanvasSize(size int) int {
	switch {
	case size < minCanvasSize:
		log.Printf("⚠️  CANVAS_SIZE=%d below %d, using %d", size, minCanvasSize, minCanvasSize)
		return minCanvasSize
	case size > maxCanvasSize:
		log.Printf("⚠️  CANVAS_SIZE=%d above %d, using %d", size, maxCanvasSize, maxCanvasSize)
		return maxCanvasSize
	}
	return size
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		log.Printf("⚠️  Invalid %s=%q, using %d", key, raw, fallback)
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		log.Printf("⚠️  Invalid %s=%q, using %s", key, raw, fallback)
		return fallback
	}
	return v
}
