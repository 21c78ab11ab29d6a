package weaverllm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// RouterConfig is the read-only configuration for a Router. It is copied at
// construction; routing decisions never mutate it.
type RouterConfig struct {
	// ProbeTimeout bounds the primary availability probe. Default 5s.
	ProbeTimeout time.Duration

	// PrimaryModels and FallbackModels map each Role to the model identifier
	// used on that provider.
	PrimaryModels  RoleModels
	FallbackModels RoleModels
}

func (c *RouterConfig) applyDefaults() {
	if c.ProbeTimeout <= 0 {
		c.ProbeTimeout = 5 * time.Second
	}
}

// Router decides which provider backs each generation call. It probes the
// primary before every call and silently falls back to the secondary on any
// provider failure. The probe is a heuristic: a provider can die between
// probe and call, so the per-call fallback is the real safety net.
type Router struct {
	primary  ProviderClient
	fallback ProviderClient
	cfg      RouterConfig
	logger   *zap.Logger
}

// NewRouter creates a Router over a primary and an optional fallback client.
func NewRouter(primary, fallback ProviderClient, cfg RouterConfig, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.applyDefaults()
	return &Router{
		primary:  primary,
		fallback: fallback,
		cfg:      cfg,
		logger:   logger,
	}
}

// IsPrimaryAvailable issues a minimal probe to the primary provider. It never
// returns an error: any failure, timeout, or missing probe support on a nil
// primary counts as unavailable. Clients that do not implement Prober are
// assumed available and covered by per-call fallback instead.
func (r *Router) IsPrimaryAvailable(ctx context.Context) bool {
	if r.primary == nil {
		return false
	}
	prober, ok := r.primary.(Prober)
	if !ok {
		return true
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.ProbeTimeout)
	defer cancel()

	if err := prober.Probe(ctx); err != nil {
		r.logger.Warn("primary provider probe failed",
			zap.String("provider", r.primary.Name()),
			zap.Error(err),
		)
		return false
	}
	return true
}

// Generate produces a completion for the prompt using the best-available
// provider for this single call. The primary is re-probed on every call; no
// sticky fallback. An error is returned only when every configured provider
// failed, wrapping the last provider failure.
func (r *Router) Generate(ctx context.Context, prompt string, role Role) (*RoutedCompletion, error) {
	var primaryErr error

	if r.IsPrimaryAvailable(ctx) {
		model := r.cfg.PrimaryModels.Model(role)
		out, err := r.complete(ctx, r.primary, prompt, model)
		if err == nil {
			return &RoutedCompletion{Text: out, Provider: ProviderPrimary, Model: model}, nil
		}
		primaryErr = err
		r.logger.Warn("primary provider failed, falling back",
			zap.String("provider", r.primary.Name()),
			zap.String("role", string(role)),
			zap.Error(err),
		)
	} else {
		primaryErr = &NetworkError{ProviderError: newProviderError(r.primaryName(), "primary provider unavailable", 0, nil)}
	}

	if r.fallback == nil {
		return nil, fmt.Errorf("no fallback provider configured: %w", primaryErr)
	}

	model := r.cfg.FallbackModels.Model(role)
	out, err := r.complete(ctx, r.fallback, prompt, model)
	if err != nil {
		return nil, fmt.Errorf("all providers failed (primary: %v): %w", primaryErr, err)
	}
	return &RoutedCompletion{Text: out, Provider: ProviderFallback, Model: model}, nil
}

// complete performs one provider call and rejects empty completions.
func (r *Router) complete(ctx context.Context, client ProviderClient, prompt, model string) (string, error) {
	text, err := client.Complete(ctx, prompt, model)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", &EmptyCompletionError{ProviderError: newProviderError(client.Name(), "provider returned empty completion", 0, nil)}
	}
	return text, nil
}

func (r *Router) primaryName() string {
	if r.primary == nil {
		return "primary"
	}
	return r.primary.Name()
}
