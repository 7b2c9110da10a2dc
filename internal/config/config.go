package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	DataDir     string `env:"DATA_DIR" envDefault:"./data"`
	DatabaseURL string `env:"DATABASE_URL"`

	LLMProvider      string `env:"LLM_PROVIDER" envDefault:"anthropic"`
	LLMAPIKey        string `env:"LLM_API_KEY"`
	LLMBaseURL       string `env:"LLM_BASE_URL"`
	LLMModel         string `env:"LLM_MODEL" envDefault:"claude-sonnet-4-20250514"`
	LLMMaxTokens     int    `env:"LLM_MAX_TOKENS" envDefault:"4096"`
	RequestTimeoutMs int    `env:"REQUEST_TIMEOUT_MS" envDefault:"60000"`

	MaxMessageLength     int    `env:"MAX_MESSAGE_LENGTH" envDefault:"10000"`
	MaxConversationTurns int    `env:"MAX_CONVERSATION_TURNS" envDefault:"20"`
	PromptFile           string `env:"PROMPT_FILE"`

	LogLevel    string   `env:"LOG_LEVEL" envDefault:"info"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`

	RedisAddr             string `env:"REDIS_ADDR"`
	RedisPassword         string `env:"REDIS_PASSWORD"`
	RedisDB               int    `env:"REDIS_DB" envDefault:"0"`
	ChatRateLimit         int    `env:"CHAT_RATE_LIMIT" envDefault:"0"`
	ChatRateWindowSeconds int    `env:"CHAT_RATE_WINDOW_SECONDS" envDefault:"60"`

	JWTSecret string `env:"JWT_SECRET"`

	OTelEnabled  bool   `env:"OTEL_ENABLED" envDefault:"false"`
	OTelEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadStoreConfig carga la configuración sin exigir credenciales del proveedor.
// La usan los comandos que solo leen o escriben perfiles.
func LoadStoreConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rechaza valores que env no puede detectar por si solo.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.LLMAPIKey) == "" {
		errs = append(errs, errors.New("LLM_API_KEY is required"))
	}
	c.LLMProvider = strings.ToLower(strings.TrimSpace(c.LLMProvider))
	if c.LLMProvider != ProviderAnthropic && c.LLMProvider != ProviderOpenAI {
		errs = append(errs, fmt.Errorf("LLM_PROVIDER must be %q or %q, got %q", ProviderAnthropic, ProviderOpenAI, c.LLMProvider))
	}
	if strings.TrimSpace(c.LLMModel) == "" {
		errs = append(errs, errors.New("LLM_MODEL must not be empty"))
	}
	if c.LLMMaxTokens <= 0 {
		errs = append(errs, errors.New("LLM_MAX_TOKENS must be positive"))
	}
	if c.RequestTimeoutMs <= 0 {
		errs = append(errs, errors.New("REQUEST_TIMEOUT_MS must be positive"))
	}
	if c.MaxMessageLength <= 0 {
		errs = append(errs, errors.New("MAX_MESSAGE_LENGTH must be positive"))
	}
	if c.MaxConversationTurns <= 0 {
		errs = append(errs, errors.New("MAX_CONVERSATION_TURNS must be positive"))
	}
	if c.ChatRateLimit < 0 {
		errs = append(errs, errors.New("CHAT_RATE_LIMIT must not be negative"))
	}
	if c.ChatRateLimit > 0 && c.ChatRateWindowSeconds <= 0 {
		errs = append(errs, errors.New("CHAT_RATE_WINDOW_SECONDS must be positive when CHAT_RATE_LIMIT is set"))
	}
	return errors.Join(errs...)
}

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMs) * time.Millisecond
}

func (c *Config) ChatRateWindow() time.Duration {
	return time.Duration(c.ChatRateWindowSeconds) * time.Second
}
