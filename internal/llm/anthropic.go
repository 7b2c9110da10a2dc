package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"resume-ragu/internal/domain"
)

const DefaultAnthropicModel = "claude-sonnet-4-20250514"

// AnthropicClient implementa LLMClient sobre la Messages API de Anthropic.
type AnthropicClient struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	logger    *zap.Logger
}

// NewAnthropicClient arma el cliente del SDK con reintentos deshabilitados.
func NewAnthropicClient(baseURL, apiKey, model string, maxTokens int, logger *zap.Logger) *AnthropicClient {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(baseURL, "/")+"/"))
	}
	if model == "" {
		model = DefaultAnthropicModel
	}
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnthropicClient{
		client:    anthropic.NewClient(opts...),
		model:     model,
		maxTokens: int64(maxTokens),
		logger:    logger,
	}
}

func (c *AnthropicClient) Complete(ctx context.Context, in Request) (Response, error) {
	msgs := make([]anthropic.MessageParam, 0, len(in.Messages))
	for _, m := range in.Messages {
		block := anthropic.NewTextBlock(m.Content)
		if m.Role == domain.RoleAssistant {
			msgs = append(msgs, anthropic.NewAssistantMessage(block))
			continue
		}
		msgs = append(msgs, anthropic.NewUserMessage(block))
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages:  msgs,
	}
	if in.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: in.System}}
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			c.logger.Warn("anthropic error status", zap.Int("status", apiErr.StatusCode))
			return Response{}, statusError(apiErr.StatusCode, fmt.Sprintf("anthropic http error: status=%d", apiErr.StatusCode))
		}
		return Response{}, transportError(err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return Response{}, fmt.Errorf("%w: no text content", domain.ErrMalformedProviderResponse)
	}

	return Response{
		Text:  sb.String(),
		Model: string(msg.Model),
		Usage: &domain.Usage{
			InputTokens:  int(msg.Usage.InputTokens),
			OutputTokens: int(msg.Usage.OutputTokens),
		},
	}, nil
}
