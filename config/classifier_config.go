package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string

	// Redis (optional; the rate limiter falls back to a local bucket)
	RedisURL string

	// Groq / LLM
	GroqAPIKey    string
	LLMBaseURL    string
	LLMModel      string
	LLMMaxTokens  int
	LLMTimeoutSec int

	// Router
	LLMMaxCallsPerBatch  int
	LLMRequestsPerMinute int
	LLMBurstSize         int
	LLMConcurrency       int

	// HTTP surface
	APIRateLimitPerMinute int

	// CORS
	AllowedOrigins []string
}

func Load() (*Config, error) {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		RedisURL: getEnv("REDIS_URL", ""),

		GroqAPIKey:    getEnv("GROQ_API_KEY", ""),
		LLMBaseURL:    getEnv("LLM_BASE_URL", ""),
		LLMModel:      getEnv("LLM_MODEL", "llama-3.3-70b-versatile"),
		LLMMaxTokens:  getEnvInt("LLM_MAX_TOKENS", 200),
		LLMTimeoutSec: getEnvInt("LLM_TIMEOUT_SEC", 30),

		LLMMaxCallsPerBatch:  getEnvInt("LLM_MAX_CALLS_PER_BATCH", 0),
		LLMRequestsPerMinute: getEnvInt("LLM_REQUESTS_PER_MINUTE", 30),
		LLMBurstSize:         getEnvInt("LLM_BURST_SIZE", 10),
		LLMConcurrency:       getEnvInt("LLM_CONCURRENCY", 4),

		APIRateLimitPerMinute: getEnvInt("API_RATE_LIMIT_PER_MINUTE", 120),

		AllowedOrigins: getEnvSlice("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
