package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{
		"HTTP_ADDR", "CORS_ORIGINS", "STORAGE_DRIVER", "STORAGE_KEY", "RECOMMEND_TIMEOUT",
		"CHAT_HISTORY_WINDOW", "RECOMMEND_PROVIDER", "MAP_LINK_HOST", "JWT_SECRET", "RABBIT_URL",
	} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "sqlite", cfg.StorageDriver)
	assert.Equal(t, "someplace_chat_sessions", cfg.StorageKey)
	assert.Equal(t, "http", cfg.RecommendProvider)
	assert.Equal(t, 30*time.Second, cfg.RecommendTimeout)
	assert.Equal(t, 10, cfg.HistoryWindow)
	assert.Equal(t, "map.kakao.com", cfg.MapLinkHost)
	assert.Len(t, cfg.CORSOrigins, 2)
	assert.Empty(t, cfg.JWTSecret)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "Redis")
	t.Setenv("RECOMMEND_TIMEOUT", "5s")
	t.Setenv("CHAT_HISTORY_WINDOW", "4")
	t.Setenv("CORS_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("DIRECTIONS_TIMEOUT", "not-a-duration")

	cfg := Load()

	assert.Equal(t, "redis", cfg.StorageDriver)
	assert.Equal(t, 5*time.Second, cfg.RecommendTimeout)
	assert.Equal(t, 4, cfg.HistoryWindow)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 10*time.Second, cfg.DirectionsTimeout)
}
