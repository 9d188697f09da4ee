package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	SMTP      SMTPConfig
	Ai        AIConfig
	Assistant AssistantConfig
	Charts    ChartConfig
	Otel      OtelConfig
}

type AppConfig struct {
	Port               string `envconfig:"APP_PORT" default:"3000"`
	Environment        string `envconfig:"GO_ENV" default:"development"`
	LogFilePath        string `envconfig:"LOG_FILE_PATH" default:"logs/assistant.log"`
	CorsAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
	JwtSecret          string `envconfig:"JWT_SECRET"`
	NatsURL            string `envconfig:"NATS_URL" default:"nats://localhost:4222"`
	RedisURL           string `envconfig:"REDIS_URL" default:"redis://localhost:6379"`
	// SessionStore selects where session contexts live: "memory" or "redis".
	SessionStore string `envconfig:"SESSION_STORE" default:"memory"`
}

func (a AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

type DatabaseConfig struct {
	Connection string `envconfig:"DB_CONNECTION_STRING"`
}

type SMTPConfig struct {
	Host       string `envconfig:"SMTP_HOST"`
	Port       int    `envconfig:"SMTP_PORT" default:"587"`
	Email      string `envconfig:"SMTP_EMAIL"`
	Password   string `envconfig:"SMTP_PASSWORD"`
	SenderName string `envconfig:"SMTP_SENDER_NAME" default:"Cubie-TCube360"`
}

type AIConfig struct {
	LLMProvider string `envconfig:"LLM_PROVIDER" default:"gemini"` // "gemini" or "ollama"
	LLMModel    string `envconfig:"LLM_MODEL" default:"gemini-2.0-flash"`
	// Fallback models are tried in order when the primary reports overload.
	LLMFallbackModels []string `envconfig:"LLM_FALLBACK_MODELS" default:"gemini-1.5-flash"`

	EmbeddingProvider   string `envconfig:"EMBEDDING_PROVIDER" default:"gemini"`
	EmbeddingModel      string `envconfig:"EMBEDDING_MODEL" default:"text-embedding-004"`
	// Must match the help_chunks vector column.
	EmbeddingDimensions int `envconfig:"EMBEDDING_DIMENSIONS" default:"768"`

	GeminiAPIKey  string `envconfig:"GOOGLE_GEMINI_API_KEY"`
	OllamaBaseURL string `envconfig:"OLLAMA_BASE_URL" default:"http://localhost:11434"`

	CallTimeout time.Duration `envconfig:"AI_CALL_TIMEOUT" default:"45s"`
}

// AssistantConfig carries the routing and retrieval policy. None of these
// values are fixed by observed behavior, so all of them are tunable.
type AssistantConfig struct {
	SimilarityFloor   float64       `envconfig:"ASSISTANT_SIMILARITY_FLOOR" default:"0.55"`
	RetrievalTopK     int           `envconfig:"ASSISTANT_RETRIEVAL_TOP_K" default:"5"`
	StickyTurns       int           `envconfig:"ASSISTANT_STICKY_TURNS" default:"3"`
	NavigationMinimum float64       `envconfig:"ASSISTANT_NAVIGATION_MIN_SCORE" default:"0.5"`
	NavigationTable   string        `envconfig:"ASSISTANT_NAVIGATION_TABLE" default:"config/navigation_routes.yaml"`
	HelpBaseURL       string        `envconfig:"ASSISTANT_HELP_BASE_URL" default:"http://dev.tcube360.com/#/help"`
	SessionTTL        time.Duration `envconfig:"ASSISTANT_SESSION_TTL" default:"1h"`
	DBTimeout         time.Duration `envconfig:"ASSISTANT_DB_TIMEOUT" default:"15s"`
	MailTimeout       time.Duration `envconfig:"ASSISTANT_MAIL_TIMEOUT" default:"30s"`
}

type ChartConfig struct {
	Store         string `envconfig:"CHART_STORE" default:"local"` // "local" or "s3"
	LocalDir      string `envconfig:"CHART_LOCAL_DIR" default:"./charts"`
	PublicBaseURL string `envconfig:"CHART_PUBLIC_BASE_URL" default:"/api/assistant/v1/charts"`
	S3Bucket      string `envconfig:"CHART_S3_BUCKET"`
	S3Region      string `envconfig:"AWS_REGION" default:"us-east-1"`
	S3Prefix      string `envconfig:"CHART_S3_PREFIX" default:"charts/"`
}

type OtelConfig struct {
	Enabled  bool   `envconfig:"OTEL_ENABLED" default:"false"`
	Endpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT" default:"localhost:4318"`
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	cfg := &Config{}
	sections := []interface{}{
		&cfg.App, &cfg.Database, &cfg.SMTP, &cfg.Ai, &cfg.Assistant, &cfg.Charts, &cfg.Otel,
	}
	for _, section := range sections {
		if err := envconfig.Process("", section); err != nil {
			log.Fatalf("Invalid configuration: %v", err)
		}
	}

	return cfg
}
