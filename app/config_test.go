package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"meetzzz-customizer/session"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"BASE_URL", "BRAND_NAME", "CANVAS_SIZE", "CUSTOMIZER_CONFIG_PATH",
		"SESSION_MAX_AGE", "PORT", "DATABASE_URL", "DB_HOST", "SNAPSHOTS_DISABLED"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	assert.Equal(t, "Meetzzz", cfg.Brand)
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
	assert.Equal(t, session.DefaultCanvasSize, cfg.CanvasSize)
	assert.Equal(t, session.DefaultMaxAge, cfg.SessionMaxAge)
	assert.True(t, cfg.SnapshotsEnabled)
	assert.False(t, cfg.Database.Configured())
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("BASE_URL", "https://shop.example.com/")
	t.Setenv("BRAND_NAME", "Night Owl")
	t.Setenv("CANVAS_SIZE", "800")
	t.Setenv("SESSION_MAX_AGE", "5m")
	t.Setenv("DATABASE_URL", "postgres://localhost/meetzzz")
	t.Setenv("SNAPSHOTS_DISABLED", "true")

	cfg := LoadConfig()
	assert.Equal(t, "https://shop.example.com", cfg.BaseURL)
	assert.Equal(t, "Night Owl", cfg.Brand)
	assert.Equal(t, 800, cfg.CanvasSize)
	assert.Equal(t, 5*time.Minute, cfg.SessionMaxAge)
	assert.True(t, cfg.Database.Configured())
	assert.Equal(t, "postgres://localhost/meetzzz", cfg.Database.URL)
	assert.False(t, cfg.SnapshotsEnabled)
}

func TestLoadConfigIgnoresInvalidNumbers(t *testing.T) {
	t.Setenv("CANVAS_SIZE", "-20")
	t.Setenv("SESSION_MAX_AGE", "soon")

	cfg := LoadConfig()
	assert.Equal(t, session.DefaultCanvasSize, cfg.CanvasSize)
	assert.Equal(t, session.DefaultMaxAge, cfg.SessionMaxAge)
}

func TestLoadConfigClampsCanvasSize(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"20000", maxCanvasSize},
		{"4096", 4096},
		{"1200", 1200},
		{"64", minCanvasSize},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Setenv("CANVAS_SIZE", tt.raw)
			assert.Equal(t, tt.want, LoadConfig().CanvasSize)
		})
	}
}
