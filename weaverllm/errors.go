package weaverllm

import "fmt"

// SDKError is the base error type for all weaverllm errors.
type SDKError struct {
	Message string
	Cause   error
}

func (e *SDKError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *SDKError) Unwrap() error {
	return e.Cause
}

// ProviderError represents a failure of an LLM provider call: network
// failure, authentication failure, malformed response, or empty completion.
type ProviderError struct {
	SDKError
	Provider   string
	StatusCode int
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("[%s] %s (status=%d)", e.Provider, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("[%s] %s", e.Provider, e.Message)
}

// Concrete provider error types.

type AuthenticationError struct{ ProviderError }
type RateLimitError struct{ ProviderError }
type ServerError struct{ ProviderError }
type NetworkError struct{ ProviderError }

// EmptyCompletionError is returned when a nominally successful provider call
// yields no text. An empty response is a generation failure, not a malformed
// program, so it stays in the provider layer.
type EmptyCompletionError struct{ ProviderError }

// RequestTimeoutError covers a provider call that exceeded its deadline.
type RequestTimeoutError struct{ SDKError }

// IsProviderFailure reports whether err belongs to the provider-layer error
// taxonomy. The Router falls back on any of these.
func IsProviderFailure(err error) bool {
	if err == nil {
		return false
	}
	switch err.(type) {
	case *ProviderError,
		*AuthenticationError,
		*RateLimitError,
		*ServerError,
		*NetworkError,
		*EmptyCompletionError,
		*RequestTimeoutError:
		return true
	default:
		return false
	}
}

func newProviderError(provider, message string, statusCode int, cause error) ProviderError {
	return ProviderError{
		SDKError:   SDKError{Message: message, Cause: cause},
		Provider:   provider,
		StatusCode: statusCode,
	}
}
