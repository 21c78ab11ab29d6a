package weaverllm

import "context"

// ProviderClient is the uniform interface to a single LLM completion
// endpoint. One outbound call per invocation; no retries, no local state
// between calls. Retry and fallback policy live above this interface.
type ProviderClient interface {
	// Name returns the provider identifier (e.g. "ollama", "openai").
	Name() string

	// Complete sends one completion request for the given prompt and model
	// identifier and returns the generated text. An empty model uses the
	// client's default. All failures are classified into the weaverllm error
	// taxonomy.
	Complete(ctx context.Context, prompt, model string) (string, error)
}

// Prober is implemented by clients that can answer a cheap health check.
// The Router probes the primary provider before each generation call.
type Prober interface {
	Probe(ctx context.Context) error
}
