// Package config loads environment-driven runtime configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// generateConsumerID creates a unique consumer ID from hostname and PID.
func generateConsumerID() string {
	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "copilot"
	}
	return fmt.Sprintf("%s-%d", hostname, os.Getpid())
}

type Config struct {
	Port        string
	Environment string

	// Database
	DatabaseURL string
	MongoDBURL  string
	MongoDBName string
	RedisURL    string

	// JWT (empty disables auth)
	JWTSecret string

	// OpenAI
	OpenAIAPIKey  string
	OpenAIBaseURL string
	AnalysisModel string
	DraftModel    string
	JudgeModel    string
	LLMTimeoutSec int

	// Rule engine
	IssueThreshold       int
	EscalationTargetMin  int
	EscalationTriggers   []string

	// Evaluation consumer (Redis Stream)
	ConsumerGroup           string
	ConsumerID              string
	ConsumerMaxRetries      int
	ConsumerPendingCheckSec int

	// Cache
	ProfileCacheTTLMin int

	// CORS
	AllowedOrigins []string

	// Rate limiting (requests per minute per client)
	RateLimitPerMin int

	// Demo scenarios endpoint
	DemoEnabled bool
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENV", "development"),

		// Database
		DatabaseURL: getEnv("DATABASE_URL", ""),
		MongoDBURL:  getEnv("MONGODB_URL", ""),
		MongoDBName: getEnv("MONGODB_DATABASE", "copilot"),
		RedisURL:    getEnv("REDIS_URL", ""),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", ""),

		// OpenAI
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		AnalysisModel: getEnv("ANALYSIS_MODEL", "gpt-4o-mini"),
		DraftModel:    getEnv("DRAFT_MODEL", "gpt-4o"),
		JudgeModel:    getEnv("JUDGE_MODEL", "gpt-4o-mini"),
		LLMTimeoutSec: getEnvInt("LLM_TIMEOUT_SEC", 60),

		// Rule engine
		IssueThreshold:      getEnvInt("ISSUE_THRESHOLD", 3),
		EscalationTargetMin: getEnvInt("ESCALATION_TARGET_MIN", 120),
		EscalationTriggers:  getEnvSlice("ESCALATION_TRIGGERS", nil),

		// Evaluation consumer
		ConsumerGroup:           getEnv("CONSUMER_GROUP", "evaluation"),
		ConsumerID:              getEnv("CONSUMER_ID", generateConsumerID()),
		ConsumerMaxRetries:      getEnvInt("CONSUMER_MAX_RETRIES", 3),
		ConsumerPendingCheckSec: getEnvInt("CONSUMER_PENDING_CHECK_SEC", 30),

		// Cache
		ProfileCacheTTLMin: getEnvInt("PROFILE_CACHE_TTL_MIN", 30),

		// CORS
		AllowedOrigins: getEnvSlice("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),

		// Rate limiting
		RateLimitPerMin: getEnvInt("RATE_LIMIT_PER_MIN", 120),

		// Demo
		DemoEnabled: getEnvBool("DEMO_ENABLED", true),
	}

	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}

	return cfg, nil
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

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
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
