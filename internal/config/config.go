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
	Ai       AIConfig
	Guide    GuideConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	Voyage        string
	MemoryBaseURL string
	MemoryApiKey  string
}

type AIConfig struct {
	EmbeddingProvider string // "voyage" or "ollama"
	EmbeddingModel    string
	OllamaBaseURL     string
	OllamaModel       string
	LLMProvider       string // "ollama"
	LLMModel          string // e.g. "llama3", "qwen2.5"
}

// GuideConfig tunes the conversation core. Defaults match production.
type GuideConfig struct {
	SessionCapacity    int
	HistoryMaxTurns    int
	HistoryCharBudget  int
	ResponseWordBudget int
	SearchTopK         int
	SimilarityFloor    float64
	PrefetchTTLMinutes int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			Voyage:        getEnv("VOYAGE_API_KEY", ""),
			MemoryBaseURL: getEnv("MEMORY_BASE_URL", ""),
			MemoryApiKey:  getEnv("MEMORY_API_KEY", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "voyage"),
			EmbeddingModel:    getEnv("EMBEDDING_MODEL", "voyage-2"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBED_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
		},
		Guide: GuideConfig{
			SessionCapacity:    getEnvAsInt("GUIDE_SESSION_CAPACITY", 100),
			HistoryMaxTurns:    getEnvAsInt("GUIDE_HISTORY_MAX_TURNS", 4),
			HistoryCharBudget:  getEnvAsInt("GUIDE_HISTORY_CHAR_BUDGET", 500),
			ResponseWordBudget: getEnvAsInt("GUIDE_RESPONSE_WORD_BUDGET", 180),
			SearchTopK:         getEnvAsInt("GUIDE_SEARCH_TOP_K", 3),
			SimilarityFloor:    getEnvAsFloat("GUIDE_SIMILARITY_FLOOR", 0.45),
			PrefetchTTLMinutes: getEnvAsInt("GUIDE_PREFETCH_TTL_MINUTES", 10),
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
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}
