package gemini

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"

	"pdfchat-backend/internal/llm"
	"pdfchat-backend/internal/shared/telemetry"
)

// DefaultBaseURL is the public Generative Language API endpoint.
const DefaultBaseURL = "https://generativelanguage.googleapis.com"

const generatePath = "/v1beta/models/{model}:generateContent"

// Options configures the Gemini client. Either APIKey or AccessToken must be set;
// AccessToken sends an OAuth2 bearer token instead of the x-goog-api-key header.
type Options struct {
	BaseURL     string
	APIKey      string
	AccessToken string
	Timeout     time.Duration
	Generation  llm.GenerationConfig
}

// Client implements llm.Client against the Gemini generateContent REST endpoint.
type Client struct {
	http *resty.Client
	gen  llm.GenerationConfig
}

// NewClient constructs a new Gemini client.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.Generation.Model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for Gemini")
	}
	apiKey := strings.TrimSpace(opts.APIKey)
	token := strings.TrimSpace(opts.AccessToken)
	if apiKey == "" && token == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY or GEMINI_ACCESS_TOKEN is required")
	}

	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	var rc *resty.Client
	if token != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
		rc = resty.NewWithClient(oauth2.NewClient(context.Background(), src))
	} else {
		rc = resty.New().SetHeader("x-goog-api-key", apiKey)
	}
	rc.SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)

	return &Client{http: rc, gen: opts.Generation}, nil
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature      float32 `json:"temperature"`
	TopP             float32 `json:"topP"`
	TopK             int     `json:"topK"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
	ResponseMimeType string  `json:"responseMimeType"`
}

type generateRequest struct {
	Contents          []content        `json:"contents"`
	SystemInstruction *content         `json:"systemInstruction,omitempty"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
	UsageMetadata *struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata,omitempty"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Generate sends prompt as a single user turn and returns the concatenated text parts
// of the first candidate.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:      c.gen.Temperature,
			TopP:             c.gen.TopP,
			TopK:             c.gen.TopK,
			MaxOutputTokens:  c.gen.MaxOutputTokens,
			ResponseMimeType: "text/plain",
		},
	}
	if sys := strings.TrimSpace(c.gen.SystemInstruction); sys != "" {
		body.SystemInstruction = &content{Parts: []part{{Text: sys}}}
	}

	var out generateResponse
	var failure apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("model", c.gen.Model).
		SetBody(body).
		SetResult(&out).
		SetError(&failure).
		Post(generatePath)
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	if resp.IsError() {
		msg := failure.Error.Message
		if msg == "" {
			msg = strings.TrimSpace(resp.String())
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode())
		}
		return "", fmt.Errorf("gemini error status=%d: %s", resp.StatusCode(), msg)
	}

	if out.PromptFeedback != nil && out.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("gemini blocked prompt: %s", out.PromptFeedback.BlockReason)
	}
	if len(out.Candidates) == 0 {
		return "", fmt.Errorf("gemini response missing candidates")
	}

	var b strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	text := b.String()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("gemini response empty content finish_reason=%s", out.Candidates[0].FinishReason)
	}

	fields := map[string]any{"model": c.gen.Model, "finish_reason": out.Candidates[0].FinishReason}
	if u := out.UsageMetadata; u != nil {
		fields["prompt_tokens"] = u.PromptTokenCount
		fields["completion_tokens"] = u.CandidatesTokenCount
		fields["total_tokens"] = u.TotalTokenCount
	}
	telemetry.Debug("llm.response", fields)
	return text, nil
}

var _ llm.Client = (*Client)(nil)
