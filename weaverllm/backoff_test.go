package weaverllm

import (
	"context"
	"testing"
	"time"
)

func TestBackoffPolicyDelay(t *testing.T) {
	policy := BackoffPolicy{
		BaseDelay:  1.0,
		Multiplier: 2.0,
		MaxDelay:   60.0,
		Jitter:     false,
	}

	delays := []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
	}

	for i, expected := range delays {
		got := policy.Delay(i)
		if got != expected {
			t.Errorf("attempt %d: expected %v, got %v", i, expected, got)
		}
	}
}

func TestBackoffPolicyDelayWithMaxCap(t *testing.T) {
	policy := BackoffPolicy{
		BaseDelay:  1.0,
		Multiplier: 2.0,
		MaxDelay:   5.0,
		Jitter:     false,
	}

	// Attempt 10 would be 1024s without cap.
	got := policy.Delay(10)
	if got != 5*time.Second {
		t.Errorf("expected 5s (capped), got %v", got)
	}
}

func TestBackoffPolicyDelayWithJitter(t *testing.T) {
	policy := BackoffPolicy{
		BaseDelay:  1.0,
		Multiplier: 2.0,
		MaxDelay:   60.0,
		Jitter:     true,
	}

	// With jitter, delay should be within +/- 50% of the base delay.
	for i := 0; i < 100; i++ {
		got := policy.Delay(0)
		if got < 500*time.Millisecond || got > 1500*time.Millisecond {
			t.Errorf("jittered delay out of range: %v", got)
		}
	}
}

func TestBackoffPolicyZeroValueNoDelay(t *testing.T) {
	var policy BackoffPolicy
	if got := policy.Delay(5); got != 0 {
		t.Errorf("zero-value policy should not delay, got %v", got)
	}
	if err := policy.Wait(context.Background(), 5); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestBackoffPolicyWaitCancelled(t *testing.T) {
	policy := BackoffPolicy{BaseDelay: 60.0, Multiplier: 1, MaxDelay: 60.0}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := policy.Wait(ctx, 0)
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if time.Since(start) > 5*time.Second {
		t.Error("wait did not return promptly on cancellation")
	}
}

func TestDefaultBackoffPolicy(t *testing.T) {
	p := DefaultBackoffPolicy()
	if p.BaseDelay != 1.0 {
		t.Errorf("expected base_delay 1.0, got %f", p.BaseDelay)
	}
	if p.MaxDelay != 30.0 {
		t.Errorf("expected max_delay 30.0, got %f", p.MaxDelay)
	}
	if p.Multiplier != 2.0 {
		t.Errorf("expected multiplier 2.0, got %f", p.Multiplier)
	}
	if !p.Jitter {
		t.Error("expected jitter = true")
	}
}
