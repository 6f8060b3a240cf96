package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"pdfchat-backend/internal/llm"
	"pdfchat-backend/internal/shared/telemetry"
)

// Client implements llm.Client using OpenAI Chat Completions.
type Client struct {
	api *goopenai.Client
	gen llm.GenerationConfig
}

// NewClient constructs a new OpenAI client. baseURL may point at any
// OpenAI-compatible endpoint; empty keeps the public API.
func NewClient(apiKey, baseURL string, timeout time.Duration, gen llm.GenerationConfig) (*Client, error) {
	if strings.TrimSpace(gen.Model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for OpenAI")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	cfg := goopenai.DefaultConfig(apiKey)
	if base := strings.TrimRight(strings.TrimSpace(baseURL), "/"); base != "" {
		cfg.BaseURL = base
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}

	return &Client{api: goopenai.NewClientWithConfig(cfg), gen: gen}, nil
}

// Generate sends the system instruction and prompt and returns the first choice.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	messages := make([]goopenai.ChatCompletionMessage, 0, 2)
	if sys := strings.TrimSpace(c.gen.SystemInstruction); sys != "" {
		messages = append(messages, goopenai.ChatCompletionMessage{Role: goopenai.ChatMessageRoleSystem, Content: sys})
	}
	messages = append(messages, goopenai.ChatCompletionMessage{Role: goopenai.ChatMessageRoleUser, Content: prompt})

	req := goopenai.ChatCompletionRequest{
		Model:       c.gen.Model,
		Messages:    messages,
		Temperature: c.gen.Temperature,
		TopP:        c.gen.TopP,
	}
	if c.gen.MaxOutputTokens > 0 {
		req.MaxTokens = c.gen.MaxOutputTokens
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *goopenai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("openai error status=%d: %s", apiErr.HTTPStatusCode, apiErr.Message)
		}
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return "", fmt.Errorf("openai request timeout: %w", err)
		}
		return "", fmt.Errorf("openai request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai response missing choices")
	}

	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("openai response empty content")
	}

	telemetry.Debug("llm.response", map[string]any{
		"model":             c.gen.Model,
		"prompt_tokens":     resp.Usage.PromptTokens,
		"completion_tokens": resp.Usage.CompletionTokens,
		"total_tokens":      resp.Usage.TotalTokens,
	})
	return content, nil
}

var _ llm.Client = (*Client)(nil)
