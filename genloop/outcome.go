package genloop

import (
	"fmt"
	"strings"
)

// OutcomeKind is the discriminator tag for ValidationOutcome.
type OutcomeKind string

const (
	OutcomeSuccess       OutcomeKind = "success"
	OutcomeSyntaxError   OutcomeKind = "syntax_error"
	OutcomeRuntimeError  OutcomeKind = "runtime_error"
	OutcomeProviderError OutcomeKind = "provider_error"
)

// ValidationOutcome is a tagged variant describing how one generation
// attempt fared. Exactly one is produced per attempt.
type ValidationOutcome struct {
	Kind    OutcomeKind `json:"kind"`
	Message string      `json:"message,omitempty"`
	Line    int         `json:"line,omitempty"`  // syntax errors, 0 when unknown
	Trace   string      `json:"trace,omitempty"` // runtime errors, empty when unavailable
}

// SuccessOutcome creates a Success outcome.
func SuccessOutcome() ValidationOutcome {
	return ValidationOutcome{Kind: OutcomeSuccess}
}

// SyntaxErrorOutcome creates a SyntaxError outcome. line may be 0 when the
// offending position is unknown.
func SyntaxErrorOutcome(message string, line int) ValidationOutcome {
	return ValidationOutcome{Kind: OutcomeSyntaxError, Message: message, Line: line}
}

// RuntimeErrorOutcome creates a RuntimeError outcome with an optional trace.
func RuntimeErrorOutcome(message, trace string) ValidationOutcome {
	return ValidationOutcome{Kind: OutcomeRuntimeError, Message: message, Trace: trace}
}

// ProviderErrorOutcome creates a ProviderError outcome.
func ProviderErrorOutcome(message string) ValidationOutcome {
	return ValidationOutcome{Kind: OutcomeProviderError, Message: message}
}

// IsSuccess reports whether the outcome is Success.
func (o ValidationOutcome) IsSuccess() bool {
	return o.Kind == OutcomeSuccess
}

// Detail renders the failure for inclusion in a repair prompt.
func (o ValidationOutcome) Detail() string {
	var sb strings.Builder
	switch o.Kind {
	case OutcomeSyntaxError:
		if o.Line > 0 {
			fmt.Fprintf(&sb, "syntax error at line %d: %s", o.Line, o.Message)
		} else {
			fmt.Fprintf(&sb, "syntax error: %s", o.Message)
		}
	case OutcomeRuntimeError:
		fmt.Fprintf(&sb, "runtime error: %s", o.Message)
		if o.Trace != "" {
			sb.WriteString("\n")
			sb.WriteString(o.Trace)
		}
	case OutcomeProviderError:
		fmt.Fprintf(&sb, "provider error: %s", o.Message)
	case OutcomeSuccess:
		sb.WriteString("success")
	}
	return sb.String()
}
