package provider

import (
	"context"
	"fmt"
	"strings"

	translator "github.com/nabram/minimax-translator-nick-abe"
	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider is an OpenAI-compatible chat-completion backend.
// It implements the same Provider interface as the fixed-endpoint
// providers, so it can be wired into either chain slot.
type OpenAIProvider struct {
	client      *openai.Client
	model       string
	temperature float32
}

// OpenAIConfig holds configuration for the OpenAI provider.
type OpenAIConfig struct {
	APIKey      string  // API key
	Model       string  // Model to use (default: "gpt-4o-mini")
	Temperature float32 // Temperature for generation (default: 0.2)
	BaseURL     string  // Custom base URL for compatible gateways (optional)
}

// NewOpenAIProvider creates a new OpenAI-compatible provider.
func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.2
	}

	return &OpenAIProvider{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		temperature: temperature,
	}
}

// Name identifies the provider.
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// Translate translates a single text via chat completion.
func (p *OpenAIProvider) Translate(ctx context.Context, req Request) (string, error) {
	systemPrompt := fmt.Sprintf(
		"You are a translation engine. Translate the user's text from %s to %s. "+
			"Reply with the translation only: no quotes, no commentary, no markup.",
		translator.LanguageName(req.SourceLang),
		translator.LanguageName(req.TargetLang),
	)

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: req.Text},
		},
		Temperature: p.temperature,
	})
	if err != nil {
		return "", &translator.ProviderError{Provider: p.Name(), Message: "chat completion failed", Cause: err}
	}

	if len(resp.Choices) == 0 {
		return "", &translator.ProviderError{Provider: p.Name(), Message: "no choices in response"}
	}

	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", &translator.ProviderError{Provider: p.Name(), Message: "empty translation"}
	}
	return out, nil
}

// Verify OpenAIProvider implements Provider
var _ Provider = (*OpenAIProvider)(nil)
