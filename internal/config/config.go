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
	Keys     APIKeys
	Agent    AgentConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	Anthropic         string
	Voyage            string
	CourseIngestTopic string // pub/sub topic for course ingestion jobs
}

type AgentConfig struct {
	VisionModel     string
	CorrectionModel string
	EvaluatorModel  string
	EmbeddingModel  string

	SpecialistMaxTokens int
	EvaluatorMaxTokens  int

	ChunkSize    int
	ChunkOverlap int

	TopK               int
	MaxRetrievalRounds int

	// Score granted when the evaluator itself fails; the answer is
	// accepted as-is.
	EvaluatorFallbackScore float64
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			Anthropic:         getEnv("ANTHROPIC_API_KEY", ""),
			Voyage:            getEnv("VOYAGE_API_KEY", ""),
			CourseIngestTopic: getEnv("INGEST_COURSE_TOPIC_NAME", "INGEST_COURSE"),
		},
		Agent: AgentConfig{
			VisionModel:            getEnv("VISION_MODEL", "claude-sonnet-4-6"),
			CorrectionModel:        getEnv("CORRECTION_MODEL", "claude-sonnet-4-6"),
			EvaluatorModel:         getEnv("EVALUATOR_MODEL", "claude-haiku-4-5-20251001"),
			EmbeddingModel:         getEnv("EMBEDDING_MODEL", "voyage-3"),
			SpecialistMaxTokens:    getEnvAsInt("SPECIALIST_MAX_TOKENS", 2048),
			EvaluatorMaxTokens:     getEnvAsInt("EVALUATOR_MAX_TOKENS", 512),
			ChunkSize:              getEnvAsInt("CHUNK_SIZE", 800),
			ChunkOverlap:           getEnvAsInt("CHUNK_OVERLAP", 100),
			TopK:                   getEnvAsInt("SPECIALIST_TOP_K", 7),
			MaxRetrievalRounds:     getEnvAsInt("MAX_RAG_ITERATIONS", 2),
			EvaluatorFallbackScore: getEnvAsFloat("EVALUATOR_FALLBACK_SCORE", 0.8),
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

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
