package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{
		"ASSISTANT_LLM_PROVIDER",
		"ASSISTANT_HTTP_PORT",
		"ASSISTANT_MAX_ALTERNATIVES",
		"ASSISTANT_UTC_OFFSET_MINUTES",
		"ASSISTANT_SESSION_IDLE_TIMEOUT",
		"ASSISTANT_SESSION_BACKEND",
		"ASSISTANT_EXTRACTION_RETRIES",
	} {
		t.Setenv(key, "")
	}

	cfg := LoadFromEnv()

	assert.Equal(t, "gemini", cfg.LLMProvider)
	assert.Equal(t, 8000, cfg.HTTPPort)
	assert.Equal(t, 3, cfg.MaxAlternatives)
	assert.Equal(t, 330, cfg.UTCOffsetMinutes)
	assert.Equal(t, 30*time.Minute, cfg.SessionIdleTimeout)
	assert.Equal(t, "memory", cfg.SessionBackend)
	assert.Equal(t, 2, cfg.ExtractionRetries)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("ASSISTANT_LLM_PROVIDER", "claude")
	t.Setenv("ASSISTANT_HTTP_PORT", "9090")
	t.Setenv("ASSISTANT_SESSION_IDLE_TIMEOUT", "2h")
	t.Setenv("ASSISTANT_CLAUDE_TEMPERATURE", "0.4")
	t.Setenv("ASSISTANT_DEV_MODE", "true")
	t.Setenv("CALENDAR_ID", "team@example.com")

	cfg := LoadFromEnv()

	assert.Equal(t, "claude", cfg.LLMProvider)
	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, 2*time.Hour, cfg.SessionIdleTimeout)
	assert.Equal(t, 0.4, cfg.ClaudeTemperature)
	assert.True(t, cfg.DevMode)
	assert.Equal(t, "team@example.com", cfg.CalendarID)
}

func TestGetEnvHelpers_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("TEST_INT", "not-a-number")
	t.Setenv("TEST_BOOL", "maybe")
	t.Setenv("TEST_DURATION", "ten minutes")

	assert.Equal(t, 7, getEnvAsIntOrDefault("TEST_INT", 7))
	assert.False(t, getEnvAsBoolOrDefault("TEST_BOOL", false))
	assert.Equal(t, time.Second, getEnvAsDurationOrDefault("TEST_DURATION", time.Second))
}
