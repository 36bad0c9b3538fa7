package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Ai       AIConfig
	Chunking ChunkingConfig
	Search   SearchConfig
	Upload   UploadConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	IngestTopic        string
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	EmbeddingProvider  string // "openai" or "ollama"
	EmbeddingModel     string
	EmbeddingBatchSize int
	LLMProvider        string // "openai" or "ollama"
	LLMModel           string
	OpenAIApiKey       string
	OllamaBaseURL      string
}

type ChunkingConfig struct {
	ChunkSize    int
	ChunkOverlap int
}

type SearchConfig struct {
	TopK            int
	SemanticWeight  float64
	KeywordWeight   float64
	MinSimilarity   float64
	MaxContextChars int
	MaxSources      int
}

type UploadConfig struct {
	Dir               string
	MaxSize           int
	AllowedExtensions []string
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
			IngestTopic:        getEnv("INGEST_DOCUMENT_TOPIC_NAME", "INGEST_DOCUMENT"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider:  getEnv("EMBEDDING_PROVIDER", "openai"),
			EmbeddingModel:     getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
			EmbeddingBatchSize: getEnvAsInt("EMBEDDING_BATCH_SIZE", 100),
			LLMProvider:        getEnv("LLM_PROVIDER", "openai"),
			LLMModel:           getEnv("LLM_MODEL", "gpt-4"),
			OpenAIApiKey:       getEnv("OPENAI_API_KEY", ""),
			OllamaBaseURL:      getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		},
		Chunking: ChunkingConfig{
			ChunkSize:    getEnvAsInt("CHUNK_SIZE", 1000),
			ChunkOverlap: getEnvAsInt("CHUNK_OVERLAP", 200),
		},
		Search: SearchConfig{
			TopK:            getEnvAsInt("TOP_K_RESULTS", 5),
			SemanticWeight:  getEnvAsFloat("SEMANTIC_WEIGHT", 0.7),
			KeywordWeight:   getEnvAsFloat("KEYWORD_WEIGHT", 0.3),
			MinSimilarity:   getEnvAsFloat("MIN_SIMILARITY", 0.0),
			MaxContextChars: getEnvAsInt("MAX_CONTEXT_CHARS", 6000),
			MaxSources:      getEnvAsInt("MAX_SOURCES", 10),
		},
		Upload: UploadConfig{
			Dir:               getEnv("UPLOAD_DIR", "./uploads"),
			MaxSize:           getEnvAsInt("MAX_UPLOAD_SIZE", 10*1024*1024),
			AllowedExtensions: getEnvAsList("ALLOWED_EXTENSIONS", []string{".txt", ".md"}),
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

func getEnvAsList(key string, fallback []string) []string {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	parts := strings.Split(strValue, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
