package weaverllm

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// BackoffPolicy configures the delay between repair attempts with
// exponential backoff. The zero value disables delays entirely; the
// generation loop owns attempt accounting, this type only paces it.
type BackoffPolicy struct {
	BaseDelay  float64 // initial delay in seconds
	MaxDelay   float64 // maximum delay between attempts
	Multiplier float64 // exponential backoff factor
	Jitter     bool    // add random jitter to prevent thundering herd
}

// DefaultBackoffPolicy returns the default pacing between repair attempts.
func DefaultBackoffPolicy() BackoffPolicy {
	return BackoffPolicy{
		BaseDelay:  1.0,
		MaxDelay:   30.0,
		Multiplier: 2.0,
		Jitter:     true,
	}
}

// Delay calculates the delay for attempt n (0-indexed).
func (p BackoffPolicy) Delay(attempt int) time.Duration {
	if p.BaseDelay <= 0 {
		return 0
	}
	multiplier := p.Multiplier
	if multiplier <= 0 {
		multiplier = 1
	}
	delay := p.BaseDelay * math.Pow(multiplier, float64(attempt))
	if p.MaxDelay > 0 {
		delay = math.Min(delay, p.MaxDelay)
	}
	if p.Jitter {
		// +/- 50% jitter
		delay = delay * (0.5 + rand.Float64()) // rand in [0,1) -> [0.5, 1.5)
	}
	return time.Duration(delay * float64(time.Second))
}

// Wait blocks for the attempt's delay or until ctx is cancelled.
func (p BackoffPolicy) Wait(ctx context.Context, attempt int) error {
	delay := p.Delay(attempt)
	if delay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}
