// Package groq calls the reasoning service through the OpenAI-compatible
// chat-completions API (Groq in the default deployment).
package groq

import (
	"context"
	"errors"
	"time"

	"github.com/sashabaranov/go-openai"

	domain "github.com/contractshield/contractshield/internal/domain/analysis"
	"github.com/contractshield/contractshield/internal/infra/ai/prompt"
)

const (
	// DefaultBaseURL points at Groq's OpenAI-compatible endpoint.
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	// DefaultModel favors fast, consistent structured output.
	DefaultModel = "llama-3.3-70b-versatile"

	maxTokens = 4096
	// Low temperature favors consistent structured output over variance.
	temperature = 0.1
)

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	// Timeout bounds a single reasoning call. Zero means 60s.
	Timeout time.Duration
}

type Client struct {
	client *openai.Client
	cfg    Config
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = cfg.BaseURL
	return &Client{client: openai.NewClientWithConfig(clientConfig), cfg: cfg}
}

// Configured reports whether an API key is present. Used by the health probe;
// never exposes the key itself.
func (c *Client) Configured() bool {
	return c.cfg.APIKey != ""
}

// Analyze sends one stateless chat completion for the contract text and
// returns the raw reply. No retries: a failed call surfaces immediately and
// the orchestrator decides the fallback behavior.
func (c *Client) Analyze(ctx context.Context, text, language string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.GetSystemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: prompt.GetUserPrompt(text, language)},
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", &domain.ReasoningError{Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &domain.ReasoningError{Err: errors.New("empty completion response")}
	}
	return resp.Choices[0].Message.Content, nil
}
