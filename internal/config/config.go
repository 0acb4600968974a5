package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kondate-app/menu-helper/internal/logger"
)

type Config struct {
	Server ServerConfig
	AI     AIConfig
	Quota  QuotaConfig
	DB     DBConfig
	Redis  RedisConfig
	Logger LoggerConfig
}

type ServerConfig struct {
	Port      string
	JWTSecret string
}

type AIConfig struct {
	Provider     string // "gemini" or "openai"
	GeminiAPIKey string
	GeminiModel  string
	OpenAIAPIKey string
	Timeout      time.Duration
}

type QuotaConfig struct {
	DailyLimit int
	// ReportingOffset shifts wall-clock time into the fixed reporting
	// timezone used for quota bucketing. Defaults to JST (+9h).
	ReportingOffset time.Duration
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type RedisConfig struct {
	Host string
	Port string
}

type LoggerConfig struct {
	Level      logger.LogLevel
	OutputPath string
	Format     string
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return logger.LevelDebug
	case "info":
		return logger.LevelInfo
	case "warn", "warning":
		return logger.LevelWarn
	case "error":
		return logger.LevelError
	default:
		return logger.LevelInfo
	}
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:      getEnvOrDefault("PORT", "8080"),
			JWTSecret: os.Getenv("JWT_SECRET"),
		},
		AI: AIConfig{
			Provider:     getEnvOrDefault("AI_PROVIDER", "gemini"),
			GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
			GeminiModel:  getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
			OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
			Timeout:      time.Duration(getEnvIntOrDefault("AI_TIMEOUT_SECONDS", 60)) * time.Second,
		},
		Quota: QuotaConfig{
			DailyLimit:      getEnvIntOrDefault("DAILY_EXECUTION_LIMIT", 5),
			ReportingOffset: time.Duration(getEnvIntOrDefault("REPORTING_TZ_OFFSET_HOURS", 9)) * time.Hour,
		},
		DB: DBConfig{
			Host:     getEnvOrDefault("DB_HOST", "localhost"),
			Port:     getEnvOrDefault("DB_PORT", "5432"),
			User:     getEnvOrDefault("DB_USER", "postgres"),
			Password: getEnvOrDefault("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrDefault("DB_NAME", "menu_helper"),
		},
		Redis: RedisConfig{
			Host: os.Getenv("REDIS_HOST"),
			Port: getEnvOrDefault("REDIS_PORT", "6379"),
		},
		Logger: LoggerConfig{
			Level:      parseLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
			OutputPath: getEnvOrDefault("LOG_OUTPUT", "logs/app.log"),
			Format:     getEnvOrDefault("LOG_FORMAT", "json"),
		},
	}

	if cfg.Server.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	switch cfg.AI.Provider {
	case "gemini":
		if cfg.AI.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required when AI_PROVIDER=gemini")
		}
	case "openai":
		if cfg.AI.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required when AI_PROVIDER=openai")
		}
	default:
		return nil, fmt.Errorf("unknown AI_PROVIDER %q", cfg.AI.Provider)
	}
	if cfg.Quota.DailyLimit <= 0 {
		return nil, fmt.Errorf("DAILY_EXECUTION_LIMIT must be positive")
	}

	return cfg, nil
}
