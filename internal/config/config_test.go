package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":5000", cfg.Addr)
	assert.Equal(t, "data/jobs.db", cfg.DBPath)
	assert.Equal(t, 30, cfg.MaxResultsPerSource)
	assert.Equal(t, 7, cfg.RetentionDays)
	assert.Equal(t, 2*time.Second, cfg.PageDelay())
	assert.Equal(t, float64(15000), cfg.RenderWaitMs())
	assert.Equal(t, 24*time.Hour, cfg.SweepInterval())
	assert.True(t, cfg.Headless)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token-123")
	t.Setenv("TELEGRAM_CHAT_ID", "42")

	cfg := Load()
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "token-123", cfg.TelegramToken)
	assert.EqualValues(t, 42, cfg.TelegramChatID)

	t.Setenv("ADDR", "127.0.0.1:9000")
	cfg = Load()
	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
}
