package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port     string
	Env      string
	LogLevel string

	// Generative backend
	AIProvider           string
	GeminiAPIKey         string
	GeminiModel          string
	OpenAIAPIKey         string
	OpenAIBaseURL        string
	OpenAIModel          string
	AnthropicAPIKey      string
	AnthropicModel       string
	AIConcurrentRequests int
	AIRequestTimeout     time.Duration

	// Cache
	CacheBackend string
	CachePrefix  string

	// Redis (optional: shared cache, status pub/sub, async queue)
	RedisURL string

	// Database (optional: run history and export)
	DatabaseURL   string
	MigrationsDir string

	// JWT (optional: session identity)
	JWTSecret string

	// Workers
	WorkerCount int

	// Uploads
	MaxUploadMB int

	// Frontend
	FrontendURL string
}

const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOffline   = "offline"
)

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:                 getEnvOrDefault("PORT", "8080"),
		Env:                  getEnvOrDefault("ENV", "development"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		AIProvider:           strings.ToLower(getEnvOrDefault("AI_PROVIDER", ProviderGemini)),
		GeminiModel:          getEnvOrDefault("GEMINI_MODEL", ""),
		OpenAIBaseURL:        getEnvOrDefault("OPENAI_BASE_URL", ""),
		OpenAIModel:          getEnvOrDefault("OPENAI_MODEL", ""),
		AnthropicModel:       getEnvOrDefault("ANTHROPIC_MODEL", ""),
		AIConcurrentRequests: getEnvAsIntOrDefault("AI_CONCURRENT_REQUESTS", 5),
		AIRequestTimeout:     getEnvAsDurationOrDefault("AI_REQUEST_TIMEOUT", 60*time.Second),
		CacheBackend:         strings.ToLower(getEnvOrDefault("CACHE_BACKEND", "memory")),
		CachePrefix:          getEnvOrDefault("CACHE_PREFIX", "summary_cache:"),
		RedisURL:             getEnvOrDefault("REDIS_URL", ""),
		DatabaseURL:          getEnvOrDefault("DATABASE_URL", ""),
		MigrationsDir:        getEnvOrDefault("MIGRATIONS_DIR", "migrations"),
		JWTSecret:            getEnvOrDefault("JWT_SECRET", ""),
		WorkerCount:          getEnvAsIntOrDefault("WORKER_COUNT", 2),
		MaxUploadMB:          getEnvAsIntOrDefault("MAX_UPLOAD_MB", 20),
		FrontendURL:          getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
	}

	// Only the selected provider's key is required.
	switch cfg.AIProvider {
	case ProviderGemini:
		cfg.GeminiAPIKey = mustGetEnv("GEMINI_API_KEY")
	case ProviderOpenAI:
		cfg.OpenAIAPIKey = mustGetEnv("OPENAI_API_KEY")
	case ProviderAnthropic:
		cfg.AnthropicAPIKey = mustGetEnv("ANTHROPIC_API_KEY")
	case ProviderOffline:
	default:
		panic(fmt.Sprintf("unsupported AI_PROVIDER %q", cfg.AIProvider))
	}

	if cfg.CacheBackend == "redis" && cfg.RedisURL == "" {
		panic("CACHE_BACKEND=redis requires REDIS_URL")
	}

	return cfg
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvAsDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}
