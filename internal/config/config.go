package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Ai       AIConfig
	Chat     ChatConfig
	Prompts  PromptConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type AuthConfig struct {
	JWTSecret     string
	TokenTTLHours int
}

type AIConfig struct {
	Provider      string // "bedrock" or "openai"
	Model         string
	Region        string
	OpenAIAPIKey  string
	OpenAIBaseURL string
}

type ChatConfig struct {
	HistoryWindow     int // Messages loaded per turn
	SummaryThreshold  int // Stored messages before a summary is generated
	RetentionDays     int // Conversation and summary lifetime
	DailyMessageLimit int // Per-user turns per day, 0 disables
	SummaryTopicName  string
	RetentionSchedule string // Cron spec for the expiry sweeper
}

type PromptConfig struct {
	RemoteURL string // Empty means builtin templates only
	APIKey    string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "soulshield"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", ""),
			TokenTTLHours: getEnvAsInt("JWT_TTL_HOURS", 24),
		},
		Ai: AIConfig{
			Provider:      getEnv("LLM_PROVIDER", "bedrock"),
			Model:         getEnv("LLM_MODEL", "anthropic.claude-3-haiku-20240307-v1:0"),
			Region:        getEnv("AWS_REGION", "us-east-1"),
			OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		},
		Chat: ChatConfig{
			HistoryWindow:     getEnvAsInt("CHAT_HISTORY_WINDOW", 20),
			SummaryThreshold:  getEnvAsInt("CHAT_SUMMARY_THRESHOLD", 10),
			RetentionDays:     getEnvAsInt("CHAT_RETENTION_DAYS", 30),
			DailyMessageLimit: getEnvAsInt("CHAT_DAILY_LIMIT", 200),
			SummaryTopicName:  getEnv("SUMMARY_TOPIC_NAME", "GENERATE_SESSION_SUMMARY"),
			RetentionSchedule: getEnv("RETENTION_SWEEP_CRON", "0 * * * *"),
		},
		Prompts: PromptConfig{
			RemoteURL: getEnv("PROMPT_STORE_URL", ""),
			APIKey:    getEnv("PROMPT_STORE_API_KEY", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
