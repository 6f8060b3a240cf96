package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
)

// DefaultSystemInstruction is the persona the assistant answers as unless overridden.
const DefaultSystemInstruction = `You have to be "FEE," a SESMAG persona, and will answer like you are FEE. Remember your name is Fee, and this is how you are: Fee
Fee
Access to Reliable Technology: High access
Communication Literacy/Education/Culture: Higher relative to peers
Attitudes toward Technology Risks: Higher risk tolerance
Technology Privacy and Security: Low risk
Perceived Control and Attitude Toward Authority: Can be challenged/changed
Technology Self-Efficacy: Higher relative to peers`

const (
	DefaultGeminiModel = "gemini-1.5-flash"
	DefaultOpenAIModel = "gpt-4o-mini"
)

// Config holds application configuration.
type Config struct {
	Port            string   `env:"PORT" envDefault:"5000" validate:"required"`
	Env             string   `env:"ENV" envDefault:"dev"`
	LogLevel        string   `env:"LOG_LEVEL" envDefault:"info"`
	ServiceName     string   `env:"SERVICE_NAME" envDefault:"pdfchat-backend"`
	DatabaseURL     string   `env:"DATABASE_URL"`
	CORSAllowOrigin []string `env:"CORS_ALLOW_ORIGINS" envDefault:"*" envSeparator:","`
	ObjectStoreType string   `env:"OBJECT_STORE" envDefault:"local" validate:"oneof=local s3"`
	UploadDir       string   `env:"UPLOAD_DIR" envDefault:"uploads"`
	AWSRegion       string   `env:"AWS_REGION"`
	S3Bucket        string   `env:"S3_BUCKET" validate:"required_if=ObjectStoreType s3"`
	S3Prefix        string   `env:"S3_PREFIX"`
	MaxUploadBytes  int64    `env:"MAX_UPLOAD_BYTES" envDefault:"0" validate:"gte=0"`
	DefaultUserID   string   `env:"DEFAULT_USER_ID" envDefault:"1" validate:"required"`
	OTLPEndpoint    string   `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	LLM             LLMConfig
}

// LLMConfig configures the generative response adapter.
type LLMConfig struct {
	Provider          string        `env:"LLM_PROVIDER" envDefault:"gemini" validate:"oneof=gemini openai"`
	Model             string        `env:"LLM_MODEL" validate:"required"`
	GeminiAPIKey      string        `env:"GEMINI_API_KEY"`
	GeminiAccessToken string        `env:"GEMINI_ACCESS_TOKEN"`
	GeminiBaseURL     string        `env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com"`
	OpenAIAPIKey      string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL     string        `env:"OPENAI_BASE_URL"`
	SystemInstruction string        `env:"LLM_SYSTEM_INSTRUCTION"`
	Temperature       float32       `env:"LLM_TEMPERATURE" envDefault:"1" validate:"gte=0,lte=2"`
	TopP              float32       `env:"LLM_TOP_P" envDefault:"0.95" validate:"gte=0,lte=1"`
	TopK              int           `env:"LLM_TOP_K" envDefault:"40" validate:"gte=0"`
	MaxOutputTokens   int           `env:"LLM_MAX_OUTPUT_TOKENS" envDefault:"8192" validate:"gte=0"`
	Timeout           time.Duration `env:"LLM_TIMEOUT" envDefault:"120s"`
}

var validate = validator.New()

// Load reads configuration from environment variables with sensible defaults.
func Load() (Config, error) {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env config: %w", err)
	}
	return Normalize(cfg)
}

// Normalize trims and validates an already populated Config.
func Normalize(cfg Config) (Config, error) {
	cfg.Env = normalizeEnv(cfg.Env)
	cfg.ObjectStoreType = normalizeStoreType(cfg.ObjectStoreType)
	cfg.CORSAllowOrigin = splitAndTrim(strings.Join(cfg.CORSAllowOrigin, ","))
	cfg.DatabaseURL = strings.TrimSpace(cfg.DatabaseURL)
	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	cfg.LLM.Model = strings.TrimSpace(cfg.LLM.Model)
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = DefaultModel(cfg.LLM.Provider)
	}
	if strings.TrimSpace(cfg.LLM.SystemInstruction) == "" {
		cfg.LLM.SystemInstruction = DefaultSystemInstruction
	}

	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.Env == "production" && cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is required in production")
	}
	return cfg, nil
}

// DefaultModel returns the model used when LLM_MODEL is unset.
func DefaultModel(provider string) string {
	if provider == "openai" {
		return DefaultOpenAIModel
	}
	return DefaultGeminiModel
}

// IsDevLike reports whether the environment tolerates in-memory fallbacks.
func (c Config) IsDevLike() bool {
	switch c.Env {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}
