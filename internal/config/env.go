package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

func init() {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()
}

type Config struct {
	// LLM extraction
	LLMProvider       string // "gemini" or "claude"
	GoogleAPIKey      string
	GeminiModel       string
	AnthropicAPIKey   string
	ClaudeModel       string
	ClaudeTemperature float64
	ExtractionRetries int
	ExtractionDelay   time.Duration

	// Google Calendar
	CalendarID            string
	GoogleCredentialsFile string
	CalendarTimeZone      string

	// Conversation
	UTCOffsetMinutes       int
	MaxAlternatives        int
	ExternalCallTimeout    time.Duration
	SessionBackend         string // "memory", "sqlite" or "redis"
	SessionIdleTimeout     time.Duration
	SessionCleanupInterval time.Duration

	// Storage
	DBPath    string
	RedisAddr string

	// HTTP
	HTTPPort           int
	RateLimitPerMinute int
	BackendURL         string

	DevMode bool
}

func LoadFromEnv() *Config {
	cfg := &Config{
		LLMProvider:       getEnvOrDefault("ASSISTANT_LLM_PROVIDER", "gemini"),
		GoogleAPIKey:      os.Getenv("GOOGLE_API_KEY"),
		GeminiModel:       getEnvOrDefault("ASSISTANT_GEMINI_MODEL", "gemini-2.5-flash"),
		AnthropicAPIKey:   os.Getenv("ANTHROPIC_API_KEY"),
		ClaudeModel:       getEnvOrDefault("ASSISTANT_CLAUDE_MODEL", "claude-sonnet-4-20250514"),
		ClaudeTemperature: getEnvAsFloatOrDefault("ASSISTANT_CLAUDE_TEMPERATURE", 0.1),
		ExtractionRetries: getEnvAsIntOrDefault("ASSISTANT_EXTRACTION_RETRIES", 2),
		ExtractionDelay:   getEnvAsDurationOrDefault("ASSISTANT_EXTRACTION_RETRY_DELAY", 500*time.Millisecond),

		CalendarID:            os.Getenv("CALENDAR_ID"),
		GoogleCredentialsFile: getEnvOrDefault("GOOGLE_APPLICATION_CREDENTIALS", "./credentials.json"),
		CalendarTimeZone:      getEnvOrDefault("ASSISTANT_CALENDAR_TIMEZONE", "Asia/Kolkata"),

		UTCOffsetMinutes:       getEnvAsIntOrDefault("ASSISTANT_UTC_OFFSET_MINUTES", 330),
		MaxAlternatives:        getEnvAsIntOrDefault("ASSISTANT_MAX_ALTERNATIVES", 3),
		ExternalCallTimeout:    getEnvAsDurationOrDefault("ASSISTANT_EXTERNAL_TIMEOUT", 15*time.Second),
		SessionBackend:         getEnvOrDefault("ASSISTANT_SESSION_BACKEND", "memory"),
		SessionIdleTimeout:     getEnvAsDurationOrDefault("ASSISTANT_SESSION_IDLE_TIMEOUT", 30*time.Minute),
		SessionCleanupInterval: getEnvAsDurationOrDefault("ASSISTANT_SESSION_CLEANUP_INTERVAL", 5*time.Minute),

		DBPath:    getEnvOrDefault("ASSISTANT_DB_PATH", "./assistant.db"),
		RedisAddr: getEnvOrDefault("ASSISTANT_REDIS_ADDR", "localhost:6379"),

		HTTPPort:           getEnvAsIntOrDefault("ASSISTANT_HTTP_PORT", 8000),
		RateLimitPerMinute: getEnvAsIntOrDefault("ASSISTANT_RATE_LIMIT_PER_MINUTE", 30),
		BackendURL:         getEnvOrDefault("BACKEND_URL", "http://localhost:8000"),

		DevMode: getEnvAsBoolOrDefault("ASSISTANT_DEV_MODE", false),
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

// getEnvAsDurationOrDefault accepts Go duration strings ("90s", "30m").
func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
