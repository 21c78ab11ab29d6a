package genloop

import (
	"time"

	"github.com/google/uuid"

	"github.com/gameweaverai/gameweaver/weaverllm"
)

// GenerationAttempt records one loop iteration. It is immutable once
// recorded and retained only for the lifetime of the session.
type GenerationAttempt struct {
	Number     int                   `json:"number"` // 1-based, strictly ordered
	Provider   weaverllm.ProviderID  `json:"provider,omitempty"`
	SourceText string                `json:"source_text,omitempty"`
	Timestamp  time.Time             `json:"timestamp"`
	Outcome    ValidationOutcome     `json:"outcome"`
}

// Session aggregates one generation request: the rules prompt, the ordered
// attempts, and the final outcome. It is exclusively owned by the Run call
// that created it and discarded once the caller has the result, so its
// methods are not synchronized.
type Session struct {
	id          string
	rulesPrompt string
	attempts    []GenerationAttempt
	final       *ValidationOutcome
	emitter     *EventEmitter
}

// NewSession creates a session for one rules prompt. The caller may
// subscribe to Events before handing the session to an Orchestrator.
func NewSession(rulesPrompt string) *Session {
	id := uuid.New().String()
	return &Session{
		id:          id,
		rulesPrompt: rulesPrompt,
		emitter:     NewEventEmitter(id, 256),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// RulesPrompt returns the immutable original prompt.
func (s *Session) RulesPrompt() string { return s.rulesPrompt }

// Events returns the event channel for the host application.
func (s *Session) Events() <-chan SessionEvent { return s.emitter.Events() }

// Attempts returns a copy of the recorded attempts in order.
func (s *Session) Attempts() []GenerationAttempt {
	out := make([]GenerationAttempt, len(s.attempts))
	copy(out, s.attempts)
	return out
}

// FinalOutcome returns the final outcome and whether it has been set.
func (s *Session) FinalOutcome() (ValidationOutcome, bool) {
	if s.final == nil {
		return ValidationOutcome{}, false
	}
	return *s.final, true
}

// Close shuts down the session's event stream.
func (s *Session) Close() {
	s.emitter.Close()
}

// recordAttempt appends an attempt, numbering it after the last.
func (s *Session) recordAttempt(a GenerationAttempt) {
	s.attempts = append(s.attempts, a)
}

// setFinal records the final outcome. It is set exactly once; later calls
// are ignored.
func (s *Session) setFinal(o ValidationOutcome) {
	if s.final != nil {
		return
	}
	s.final = &o
}

// Result is what the caller receives when a session terminates. On success
// Artifact holds the validated source; on exhaustion it is empty and
// Outcomes carries the full failure history for diagnostics.
type Result struct {
	SessionID string                  `json:"session_id"`
	Artifact  string                  `json:"artifact,omitempty"`
	Provider  weaverllm.ProviderID    `json:"provider,omitempty"`
	Attempts  int                     `json:"attempts"`
	Outcomes  []ValidationOutcome     `json:"outcomes"`
	Exhausted bool                    `json:"exhausted"`
}

// resultFromSession assembles the caller-facing result.
func resultFromSession(s *Session) *Result {
	attempts := s.Attempts()
	r := &Result{
		SessionID: s.id,
		Attempts:  len(attempts),
		Outcomes:  make([]ValidationOutcome, 0, len(attempts)),
	}
	for _, a := range attempts {
		r.Outcomes = append(r.Outcomes, a.Outcome)
	}
	if final, ok := s.FinalOutcome(); ok && final.IsSuccess() {
		last := attempts[len(attempts)-1]
		r.Artifact = last.SourceText
		r.Provider = last.Provider
	} else {
		r.Exhausted = true
	}
	return r
}
