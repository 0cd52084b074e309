package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds every runtime setting of the application. It is constructed
// once during process initialization and passed by reference into the
// components that need it; nothing reads ambient global state.
type Config struct {
	AppPort  int    `mapstructure:"APP_PORT"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	GroqAPIKey string `mapstructure:"GROQ_API_KEY"`
	GroqAPIURL string `mapstructure:"GROQ_API_URL"`
	GroqModel  string `mapstructure:"GROQ_MODEL"`

	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`
	GeminiAPIURL string `mapstructure:"GEMINI_API_URL"`
	GeminiModel  string `mapstructure:"GEMINI_MODEL"`

	HFAPIKey string `mapstructure:"HF_API_KEY"`
	HFAPIURL string `mapstructure:"HF_API_URL"`
	HFModel  string `mapstructure:"HF_MODEL"`

	ImageDir       string        `mapstructure:"IMAGE_DIR"`
	ImageMaxAge    time.Duration `mapstructure:"IMAGE_MAX_AGE"`
	ImageSweepTick time.Duration `mapstructure:"IMAGE_SWEEP_INTERVAL"`

	HistoryMaxTurns int `mapstructure:"HISTORY_MAX_TURNS"`

	DatabasePath   string `mapstructure:"DATABASE_PATH"`
	RAGDocsPath    string `mapstructure:"RAG_DOCS_PATH"`
	EmbeddingModel string `mapstructure:"EMBEDDING_MODEL"`
}

// LoadConfig reads configuration from a .env file (when present) and the
// process environment, applies defaults, and validates that the provider
// credentials are set. A missing credential is a startup failure, not
// something to discover on the first request.
func LoadConfig() (*Config, error) {
	viper.SetDefault("APP_PORT", 8001)
	viper.SetDefault("LOG_LEVEL", "INFO")

	viper.SetDefault("GROQ_API_URL", "https://api.groq.com/openai/v1/chat/completions")
	viper.SetDefault("GROQ_MODEL", "llama-3.3-70b-versatile")

	viper.SetDefault("GEMINI_API_URL", "https://generativelanguage.googleapis.com/v1beta/models")
	viper.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")

	viper.SetDefault("HF_API_URL", "https://router.huggingface.co")
	viper.SetDefault("HF_MODEL", "black-forest-labs/FLUX.1-dev")

	viper.SetDefault("IMAGE_DIR", filepath.Join(os.TempDir(), "generated_images"))
	viper.SetDefault("IMAGE_MAX_AGE", 24*time.Hour)
	viper.SetDefault("IMAGE_SWEEP_INTERVAL", time.Hour)

	viper.SetDefault("HISTORY_MAX_TURNS", 6)

	// Credentials have no defaults, but the keys must be registered for
	// AutomaticEnv values to survive Unmarshal.
	viper.SetDefault("GROQ_API_KEY", "")
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("HF_API_KEY", "")

	viper.SetDefault("DATABASE_PATH", "/data/hva.db")
	viper.SetDefault("RAG_DOCS_PATH", "rag_docs")
	viper.SetDefault("EMBEDDING_MODEL", "sentence-transformers/all-MiniLM-L6-v2")

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./backend")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.GroqAPIKey == "" {
		return nil, fmt.Errorf("set GROQ_API_KEY in environment (see .env.example)")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("set GEMINI_API_KEY in environment (see .env.example)")
	}
	if cfg.HFAPIKey == "" {
		return nil, fmt.Errorf("set HF_API_KEY in environment (see .env.example)")
	}

	return &cfg, nil
}
