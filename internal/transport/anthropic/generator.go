package anthropic

import (
	"context"
	"errors"
	"fmt"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/kailas-cloud/papyrus/internal/domain"
)

const defaultMaxTokens = 2048

// Generator is a text generation provider using the Anthropic Messages API.
type Generator struct {
	client    *anthropic.Client
	model     string
	maxTokens int
}

// Config holds the Anthropic provider settings.
type Config struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
}

// NewGenerator creates an Anthropic generation provider.
func NewGenerator(cfg *Config) *Generator {
	var opts []anthropic.ClientOption
	if cfg.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &Generator{
		client:    anthropic.NewClient(cfg.APIKey, opts...),
		model:     cfg.Model,
		maxTokens: maxTokens,
	}
}

// Generate implements domain.Generator.
func (g *Generator) Generate(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResult, error) {
	resp, err := g.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model: anthropic.Model(g.model),
		Messages: []anthropic.Message{
			{
				Role: anthropic.RoleUser,
				Content: []anthropic.MessageContent{
					anthropic.NewTextMessageContent(domain.RenderPrompt(req)),
				},
			},
		},
		MaxTokens: g.maxTokens,
	})
	if err != nil {
		return domain.GenerationResult{}, classifyError(err)
	}

	if len(resp.Content) == 0 || resp.Content[0].Text == nil || *resp.Content[0].Text == "" {
		return domain.GenerationResult{}, fmt.Errorf("no response content: %w", domain.ErrGenerationFailed)
	}

	return domain.GenerationResult{
		Text:             *resp.Content[0].Text,
		PromptTokens:     resp.Usage.InputTokens,
		CompletionTokens: resp.Usage.OutputTokens,
	}, nil
}

// classifyError maps SDK errors onto generation sentinels. Context errors pass through.
func classifyError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("create messages: %w", err)
	}
	var apiErr *anthropic.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Type == anthropic.ErrTypeRateLimit {
			return fmt.Errorf("messages API %s: %s: %w", apiErr.Type, apiErr.Message, domain.ErrRateLimited)
		}
		return fmt.Errorf("messages API %s: %s: %w", apiErr.Type, apiErr.Message, domain.ErrGenerationFailed)
	}
	return fmt.Errorf("create messages: %v: %w", err, domain.ErrGenerationFailed)
}
