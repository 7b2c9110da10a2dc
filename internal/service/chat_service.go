package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"resume-ragu/internal/domain"
	"resume-ragu/internal/llm"
	"resume-ragu/internal/prompts"
	"resume-ragu/internal/repository"
)

const defaultRequestTimeout = 60 * time.Second

// ChatService orquesta una pasada de chat: carga el perfil, valida, arma el prompt, llama al proveedor y valida la salida.
// No escribe nada; el historial vive en el cliente.
type ChatService struct {
	logger         *zap.Logger
	profiles       repository.ProfileRepository
	llmClient      llm.LLMClient
	builder        ResumePromptBuilder
	template       prompts.Template
	guardrails     GuardrailConfig
	limiter        ChatRateLimiter
	requestTimeout time.Duration
}

func NewChatService(
	logger *zap.Logger,
	profiles repository.ProfileRepository,
	llmClient llm.LLMClient,
	template prompts.Template,
	guardrails GuardrailConfig,
	limiter ChatRateLimiter,
	requestTimeout time.Duration,
) *ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}
	return &ChatService{
		logger:         logger,
		profiles:       profiles,
		llmClient:      llmClient,
		template:       template,
		guardrails:     guardrails,
		limiter:        limiter,
		requestTimeout: requestTimeout,
	}
}

// Chat genera la siguiente respuesta del asistente para la conversacion recibida.
func (s *ChatService) Chat(ctx context.Context, userID string, messages []domain.ConversationMessage) (domain.ChatResult, error) {
	ctx, span := otel.Tracer("resume-ragu/service").Start(ctx, "ChatService.Chat")
	defer span.End()
	span.SetAttributes(
		attribute.String("user.id", userID),
		attribute.Int("chat.turns", len(messages)),
	)

	result, err := s.chat(ctx, userID, messages)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return result, err
}

func (s *ChatService) chat(ctx context.Context, userID string, messages []domain.ConversationMessage) (domain.ChatResult, error) {
	start := time.Now()

	if err := domain.ValidateUserID(userID); err != nil {
		return domain.ChatResult{}, err
	}
	if err := validateConversation(messages); err != nil {
		return domain.ChatResult{}, err
	}

	profile, err := s.profiles.Load(ctx, userID)
	if err != nil {
		return domain.ChatResult{}, fmt.Errorf("load profile: %w", err)
	}

	latest := messages[len(messages)-1]
	if outcome := ValidateInput(latest.Content, len(messages)-1, s.guardrails); !outcome.Accepted {
		s.logger.Warn("chat input rejected",
			zap.String("user_id", userID),
			zap.String("reason", outcome.Reason),
			zap.Int("turns", len(messages)),
		)
		return domain.ChatResult{}, &domain.GuardrailError{Reason: outcome.Reason}
	}

	req, err := s.builder.Build(profile, s.template, messages)
	if err != nil {
		return domain.ChatResult{}, err
	}

	if s.limiter != nil && !s.limiter.Allow(userID) {
		return domain.ChatResult{}, domain.ErrRateLimited
	}

	// La llamada al proveedor no se corta si el cliente se desconecta; solo el timeout la limita.
	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.requestTimeout)
	defer cancel()

	resp, err := s.llmClient.Complete(callCtx, req)
	if err != nil {
		s.logger.Warn("llm complete failed",
			zap.String("user_id", userID),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return domain.ChatResult{}, fmt.Errorf("llm complete: %w", err)
	}

	content := cleanAssistantText(resp.Text)
	if content == "" {
		return domain.ChatResult{}, fmt.Errorf("llm complete: %w: blank text", domain.ErrMalformedProviderResponse)
	}
	flagged := false
	if outcome := ValidateOutput(content); !outcome.Accepted {
		s.logger.Warn("chat output flagged",
			zap.String("user_id", userID),
			zap.String("reason", outcome.Reason),
		)
		content = FallbackResponse
		flagged = true
	}

	fields := []zap.Field{
		zap.String("user_id", userID),
		zap.Int("turns", len(messages)),
		zap.Int("jobs", len(profile.Jobs)),
		zap.Int("accomplishments", len(profile.Accomplishments)),
		zap.Duration("elapsed", time.Since(start)),
	}
	if resp.Usage != nil {
		fields = append(fields,
			zap.Int("input_tokens", resp.Usage.InputTokens),
			zap.Int("output_tokens", resp.Usage.OutputTokens),
		)
	}
	s.logger.Info("chat completed", fields...)

	return domain.ChatResult{
		Message: domain.ConversationMessage{Role: domain.RoleAssistant, Content: content},
		Usage:   resp.Usage,
		Flagged: flagged,
	}, nil
}

// validateConversation chequea la forma del historial. El contenido del ultimo mensaje lo revisa ValidateInput.
func validateConversation(messages []domain.ConversationMessage) error {
	if len(messages) == 0 {
		return fmt.Errorf("%w: messages must not be empty", domain.ErrInvalidConversation)
	}
	for i, m := range messages {
		if m.Role != domain.RoleUser && m.Role != domain.RoleAssistant {
			return fmt.Errorf("%w: message %d has invalid role %q", domain.ErrInvalidConversation, i, m.Role)
		}
		if i < len(messages)-1 && strings.TrimSpace(m.Content) == "" {
			return fmt.Errorf("%w: message %d is empty", domain.ErrInvalidConversation, i)
		}
	}
	if messages[len(messages)-1].Role != domain.RoleUser {
		return fmt.Errorf("%w: last message must come from the user", domain.ErrInvalidConversation)
	}
	return nil
}
