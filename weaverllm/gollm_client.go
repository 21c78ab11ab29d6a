package weaverllm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/teilomillet/gollm"
	"github.com/teilomillet/gollm/llm"
)

// textGenerator is the slice of gollm.LLM the client uses. Narrowing the
// dependency keeps the completion path testable without a full gollm stack.
type textGenerator interface {
	Generate(ctx context.Context, prompt *gollm.Prompt, opts ...llm.GenerateOption) (string, error)
	SetOption(key string, value interface{})
}

// GollmClient wraps a gollm.LLM instance and implements ProviderClient.
// It translates gollm failures into the weaverllm error taxonomy. Safe for
// concurrent use: gollm carries the model as client state, so the per-call
// model override and the generation it belongs to are applied under one lock.
type GollmClient struct {
	provider string
	llm      textGenerator
	model    string
	mu       sync.Mutex
}

// GollmClientOption configures a GollmClient.
type GollmClientOption func(*gollmClientConfig)

type gollmClientConfig struct {
	model       string
	maxTokens   int
	temperature float64
	extraOpts   []gollm.ConfigOption
}

// WithModel sets the default model for the client.
func WithModel(model string) GollmClientOption {
	return func(c *gollmClientConfig) {
		c.model = model
	}
}

// WithMaxTokens sets the default max tokens.
func WithMaxTokens(n int) GollmClientOption {
	return func(c *gollmClientConfig) {
		c.maxTokens = n
	}
}

// WithTemperature sets the default temperature.
func WithTemperature(t float64) GollmClientOption {
	return func(c *gollmClientConfig) {
		c.temperature = t
	}
}

// WithGollmOptions adds extra gollm configuration options, e.g.
// gollm.SetOllamaEndpoint for a self-hosted primary.
func WithGollmOptions(opts ...gollm.ConfigOption) GollmClientOption {
	return func(c *gollmClientConfig) {
		c.extraOpts = append(c.extraOpts, opts...)
	}
}

// NewGollmClient creates a GollmClient for the given provider. If apiKey is
// empty, gollm reads it from the provider's environment variable.
func NewGollmClient(provider, apiKey string, opts ...GollmClientOption) (*GollmClient, error) {
	cfg := &gollmClientConfig{
		maxTokens:   4096,
		temperature: 0.7,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	model := cfg.model
	if model == "" {
		switch provider {
		case "openai":
			model = "gpt-4o-mini"
		case "anthropic":
			model = "claude-sonnet-4-5-20250514"
		case "ollama":
			model = "llama3"
		default:
			model = "gpt-4o-mini"
		}
	}

	gollmOpts := []gollm.ConfigOption{
		gollm.SetProvider(provider),
		gollm.SetModel(model),
		gollm.SetMaxTokens(cfg.maxTokens),
		gollm.SetTemperature(cfg.temperature),
		gollm.SetMaxRetries(0), // the orchestration loop owns all retries
		gollm.SetLogLevel(gollm.LogLevelWarn),
	}

	if apiKey != "" {
		gollmOpts = append(gollmOpts, gollm.SetAPIKey(apiKey))
	}

	gollmOpts = append(gollmOpts, cfg.extraOpts...)

	llm, err := gollm.NewLLM(gollmOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gollm LLM for provider %s: %w", provider, err)
	}

	return &GollmClient{
		provider: provider,
		llm:      llm,
		model:    model,
	}, nil
}

// NewGollmClientFromLLM wraps an existing gollm.LLM instance.
func NewGollmClientFromLLM(provider string, llm gollm.LLM) *GollmClient {
	return &GollmClient{
		provider: provider,
		llm:      llm,
	}
}

// Name returns the provider identifier.
func (c *GollmClient) Name() string {
	return c.provider
}

// Complete sends one completion request and returns the generated text.
func (c *GollmClient) Complete(ctx context.Context, prompt, model string) (string, error) {
	if model == "" {
		model = c.model
	}

	c.mu.Lock()
	if model != "" {
		c.llm.SetOption("model", model)
	}
	text, err := c.llm.Generate(ctx, gollm.NewPrompt(prompt))
	c.mu.Unlock()

	if err != nil {
		return "", c.translateError(err)
	}
	return text, nil
}

// Probe issues a minimal completion request to check availability. Any
// failure means unavailable; the result carries no other information.
func (c *GollmClient) Probe(ctx context.Context) error {
	probe := gollm.NewPrompt("ping", gollm.WithMaxLength(8))

	c.mu.Lock()
	_, err := c.llm.Generate(ctx, probe)
	c.mu.Unlock()

	if err != nil {
		return c.translateError(err)
	}
	return nil
}

// translateError converts a gollm error into the weaverllm error taxonomy.
// gollm surfaces provider failures as flat errors, so classification matches
// on status codes and well-known message fragments.
func (c *GollmClient) translateError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	msgLower := strings.ToLower(msg)

	switch {
	case strings.Contains(msgLower, "401") || strings.Contains(msgLower, "unauthorized") || strings.Contains(msgLower, "invalid api key") || strings.Contains(msgLower, "invalid key"):
		return &AuthenticationError{ProviderError: newProviderError(c.provider, msg, 401, err)}
	case strings.Contains(msgLower, "429") || strings.Contains(msgLower, "rate limit"):
		return &RateLimitError{ProviderError: newProviderError(c.provider, msg, 429, err)}
	case strings.Contains(msgLower, "500") || strings.Contains(msgLower, "502") || strings.Contains(msgLower, "503") || strings.Contains(msgLower, "internal server"):
		return &ServerError{ProviderError: newProviderError(c.provider, msg, 500, err)}
	case strings.Contains(msgLower, "timeout") || strings.Contains(msgLower, "deadline exceeded"):
		return &RequestTimeoutError{SDKError: SDKError{Message: msg, Cause: err}}
	case strings.Contains(msgLower, "connection refused") || strings.Contains(msgLower, "no such host") || strings.Contains(msgLower, "network"):
		return &NetworkError{ProviderError: newProviderError(c.provider, msg, 0, err)}
	default:
		pe := newProviderError(c.provider, msg, 0, err)
		return &pe
	}
}
