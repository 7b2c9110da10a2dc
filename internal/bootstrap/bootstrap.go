package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"resume-ragu/internal/config"
	"resume-ragu/internal/db"
	"resume-ragu/internal/llm"
	"resume-ragu/internal/prompts"
	"resume-ragu/internal/repository"
	"resume-ragu/internal/service"
)

// NewLogger arma un logger de produccion con el nivel pedido (debug, info, warn, error).
func NewLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}

// OpenProfileStore elige Postgres si hay DATABASE_URL y si no un directorio local.
// El cleanup devuelto libera el pool cuando corresponde.
func OpenProfileStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.ProfileRepository, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Info("using file profile store", zap.String("data_dir", cfg.DataDir))
		return repository.NewFileProfileRepository(cfg.DataDir), func() {}, nil
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("db connect: %w", err)
	}
	if err := db.Ping(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("db ping: %w", err)
	}
	if err := db.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("db schema: %w", err)
	}
	logger.Info("using postgres profile store")
	return repository.NewPgProfileRepository(pool), pool.Close, nil
}

// NewLLMClient construye el cliente del proveedor configurado.
func NewLLMClient(cfg *config.Config, logger *zap.Logger) llm.LLMClient {
	switch cfg.LLMProvider {
	case config.ProviderOpenAI:
		return llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMMaxTokens, logger)
	default:
		return llm.NewAnthropicClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMMaxTokens, logger)
	}
}

// NewChatRateLimiter devuelve nil si CHAT_RATE_LIMIT es 0. Con REDIS_ADDR el limite se comparte entre procesos.
func NewChatRateLimiter(ctx context.Context, cfg *config.Config, logger *zap.Logger) (service.ChatRateLimiter, func()) {
	if cfg.ChatRateLimit <= 0 {
		return nil, func() {}
	}
	if cfg.RedisAddr == "" {
		return service.NewMemoryChatRateLimiter(cfg.ChatRateWindow(), cfg.ChatRateLimit), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctxPing).Err(); err != nil {
		logger.Warn("redis ping failed, using in-memory chat limiter", zap.Error(err))
		_ = client.Close()
		return service.NewMemoryChatRateLimiter(cfg.ChatRateWindow(), cfg.ChatRateLimit), func() {}
	}
	return service.NewRedisChatRateLimiter(client, cfg.ChatRateWindow(), cfg.ChatRateLimit), func() { _ = client.Close() }
}

// NewChatService arma el orquestador completo a partir de la configuracion.
func NewChatService(ctx context.Context, cfg *config.Config, logger *zap.Logger, store repository.ProfileRepository) (*service.ChatService, func(), error) {
	tpl, err := prompts.Load(cfg.PromptFile)
	if err != nil {
		return nil, nil, err
	}
	guardrails := service.NewGuardrailConfig(cfg.MaxMessageLength, cfg.MaxConversationTurns, tpl.DenyPhrases)
	limiter, cleanup := NewChatRateLimiter(ctx, cfg, logger)

	chatSvc := service.NewChatService(
		logger,
		store,
		NewLLMClient(cfg, logger),
		tpl,
		guardrails,
		limiter,
		cfg.RequestTimeout(),
	)
	return chatSvc, cleanup, nil
}
