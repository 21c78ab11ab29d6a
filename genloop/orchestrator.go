package genloop

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/gameweaverai/gameweaver/weaverllm"
)

// State is the loop's explicit machine state.
type State string

const (
	StateInit       State = "init"
	StateGenerating State = "generating"
	StateValidating State = "validating"
	StateRepairing  State = "repairing"
	StateSuccess    State = "success"
	StateExhausted  State = "exhausted"
)

// Terminal reports whether the state ends the session.
func (s State) Terminal() bool {
	return s == StateSuccess || s == StateExhausted
}

// nextState is the pure transition function. outcome is nil while in a state
// that has not produced one yet (INIT, REPAIRING, or GENERATING when the
// provider call succeeded and validation is still pending).
func nextState(s State, outcome *ValidationOutcome, attempt, budget int) State {
	switch s {
	case StateInit:
		return StateGenerating
	case StateGenerating:
		if outcome == nil {
			return StateValidating
		}
		// The router failed at every provider. The attempt still counts
		// against the budget; the failure may be transient, so keep going
		// if budget remains.
		if attempt >= budget {
			return StateExhausted
		}
		return StateRepairing
	case StateValidating:
		if outcome == nil || outcome.IsSuccess() {
			return StateSuccess
		}
		if attempt >= budget {
			return StateExhausted
		}
		return StateRepairing
	case StateRepairing:
		return StateGenerating
	}
	return s
}

// Generator produces a routed completion for a prompt. *weaverllm.Router is
// the production implementation.
type Generator interface {
	Generate(ctx context.Context, prompt string, role weaverllm.Role) (*weaverllm.RoutedCompletion, error)
}

// LoopConfig is the read-only configuration of an Orchestrator.
type LoopConfig struct {
	// RetryBudget caps the number of generation attempts. Default 3.
	RetryBudget int

	// Backoff paces repair attempts. The zero value applies no delay.
	Backoff weaverllm.BackoffPolicy
}

// DefaultLoopConfig returns the default loop configuration.
func DefaultLoopConfig() LoopConfig {
	return LoopConfig{RetryBudget: 3}
}

func (c *LoopConfig) applyDefaults() {
	if c.RetryBudget <= 0 {
		c.RetryBudget = 3
	}
}

// Orchestrator drives the generation-validation-repair loop. It is safe for
// concurrent use: each Run owns its session exclusively and the orchestrator
// itself holds only read-only configuration.
type Orchestrator struct {
	gen       Generator
	validator Validator
	cfg       LoopConfig
	logger    *zap.Logger
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(gen Generator, validator Validator, cfg LoopConfig, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.applyDefaults()
	return &Orchestrator{
		gen:       gen,
		validator: validator,
		cfg:       cfg,
		logger:    logger,
	}
}

// Run creates a session for the rules prompt, drives it to a terminal state,
// and returns the result. Event subscribers should use RunSession instead so
// they can attach before the loop starts.
func (o *Orchestrator) Run(ctx context.Context, rulesPrompt string, role weaverllm.Role) (*Result, error) {
	session := NewSession(rulesPrompt)
	defer session.Close()
	return o.RunSession(ctx, session, role)
}

// RunSession drives an externally created session to a terminal state. The
// session must not be shared with another RunSession call.
func (o *Orchestrator) RunSession(ctx context.Context, session *Session, role weaverllm.Role) (*Result, error) {
	if session == nil {
		return nil, fmt.Errorf("genloop: nil session")
	}
	if _, done := session.FinalOutcome(); done {
		return nil, fmt.Errorf("genloop: session %s already finished", session.ID())
	}

	budget := o.cfg.RetryBudget
	logger := o.logger.With(zap.String("session_id", session.ID()))

	session.emitter.Emit(EventSessionStart, map[string]interface{}{
		"role":         string(role),
		"retry_budget": budget,
	})

	state := StateInit
	attempt := 0
	prompt := session.RulesPrompt()
	var lastOutcome ValidationOutcome
	var pending *weaverllm.RoutedCompletion

	for !state.Terminal() {
		select {
		case <-ctx.Done():
			session.emitter.Emit(EventError, map[string]interface{}{
				"error": "context cancelled",
			})
			session.emitter.Emit(EventSessionEnd, nil)
			return nil, ctx.Err()
		default:
		}

		switch state {
		case StateInit:
			attempt = 1
			state = nextState(state, nil, attempt, budget)

		case StateGenerating:
			session.emitter.Emit(EventAttemptStart, map[string]interface{}{
				"attempt": attempt,
			})

			out, err := o.gen.Generate(ctx, prompt, role)
			if err != nil {
				if ctx.Err() != nil {
					session.emitter.Emit(EventSessionEnd, nil)
					return nil, ctx.Err()
				}
				outcome := ProviderErrorOutcome(err.Error())
				session.recordAttempt(GenerationAttempt{
					Number:    attempt,
					Timestamp: time.Now(),
					Outcome:   outcome,
				})
				lastOutcome = outcome
				logger.Warn("generation failed at every provider",
					zap.Int("attempt", attempt),
					zap.Error(err),
				)
				session.emitter.Emit(EventError, map[string]interface{}{
					"attempt": attempt,
					"error":   err.Error(),
				})
				state = nextState(StateGenerating, &outcome, attempt, budget)
				continue
			}

			pending = out
			if out.Provider == weaverllm.ProviderFallback {
				session.emitter.Emit(EventProviderFallback, map[string]interface{}{
					"attempt": attempt,
				})
			}
			session.emitter.Emit(EventGenerationEnd, map[string]interface{}{
				"attempt":  attempt,
				"provider": string(out.Provider),
				"model":    out.Model,
			})
			state = nextState(StateGenerating, nil, attempt, budget)

		case StateValidating:
			source := StripCodeFences(pending.Text)
			outcome := o.validator.Validate(ctx, source)
			if ctx.Err() != nil {
				// A cancelled smoke run looks like a runtime failure of the
				// artifact. Do not record it or repair against it.
				session.emitter.Emit(EventSessionEnd, nil)
				return nil, ctx.Err()
			}
			session.recordAttempt(GenerationAttempt{
				Number:     attempt,
				Provider:   pending.Provider,
				SourceText: source,
				Timestamp:  time.Now(),
				Outcome:    outcome,
			})
			lastOutcome = outcome

			logger.Info("attempt validated",
				zap.Int("attempt", attempt),
				zap.String("provider", string(pending.Provider)),
				zap.String("outcome", string(outcome.Kind)),
			)
			session.emitter.Emit(EventValidationEnd, map[string]interface{}{
				"attempt": attempt,
				"outcome": string(outcome.Kind),
				"message": outcome.Message,
			})
			state = nextState(StateValidating, &outcome, attempt, budget)

		case StateRepairing:
			prompt = nextPrompt(session.RulesPrompt(), lastOutcome)
			session.emitter.Emit(EventRepair, map[string]interface{}{
				"attempt": attempt,
				"outcome": string(lastOutcome.Kind),
			})
			if err := o.cfg.Backoff.Wait(ctx, attempt-1); err != nil {
				session.emitter.Emit(EventSessionEnd, nil)
				return nil, err
			}
			attempt++
			state = nextState(StateRepairing, nil, attempt, budget)
		}
	}

	session.setFinal(lastOutcome)
	session.emitter.Emit(EventSessionEnd, map[string]interface{}{
		"state":    string(state),
		"attempts": attempt,
	})

	return resultFromSession(session), nil
}
