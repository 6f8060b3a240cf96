package llm

import (
	"context"
	"errors"
)

// Client abstracts the hosted generative model: one prompt in, one answer out.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GenerationConfig carries the sampling parameters and persona sent with every request.
type GenerationConfig struct {
	Model             string
	SystemInstruction string
	Temperature       float32
	TopP              float32
	TopK              int
	MaxOutputTokens   int
}

// ErrInvocation marks any failure of the generative provider call.
var ErrInvocation = errors.New("llm invocation failed")

// ErrNotConfigured is returned by the placeholder client when no credential is set.
var ErrNotConfigured = errors.New("llm provider not configured")

// PlaceholderClient stands in when no provider credential is configured so the server
// can still start; every call fails.
type PlaceholderClient struct {
	Provider string
}

// Generate returns ErrNotConfigured.
func (p PlaceholderClient) Generate(context.Context, string) (string, error) {
	return "", ErrNotConfigured
}

// Func adapts a plain function to Client.
type Func func(ctx context.Context, prompt string) (string, error)

// Generate calls f.
func (f Func) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
