package genloop

import (
	"testing"
	"time"
)

func TestEventEmitterDelivers(t *testing.T) {
	emitter := NewEventEmitter("sess-1", 10)
	emitter.Emit(EventSessionStart, map[string]interface{}{"role": "code"})

	select {
	case ev := <-emitter.Events():
		if ev.Kind != EventSessionStart {
			t.Errorf("expected session_start, got %s", ev.Kind)
		}
		if ev.SessionID != "sess-1" {
			t.Errorf("unexpected session id %q", ev.SessionID)
		}
		if ev.Data["role"] != "code" {
			t.Errorf("unexpected data %v", ev.Data)
		}
		if ev.Timestamp.IsZero() {
			t.Error("timestamp not set")
		}
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestEventEmitterDropsWhenFull(t *testing.T) {
	emitter := NewEventEmitter("sess-2", 1)
	emitter.Emit(EventAttemptStart, nil)
	// Buffer full; this must not block.
	done := make(chan struct{})
	go func() {
		emitter.Emit(EventAttemptStart, nil)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("emit blocked on a full channel")
	}
}

func TestEventEmitterCloseIdempotent(t *testing.T) {
	emitter := NewEventEmitter("sess-3", 4)
	emitter.Close()
	emitter.Close()
	// Emit after close is a no-op.
	emitter.Emit(EventSessionEnd, nil)

	if _, ok := <-emitter.Events(); ok {
		t.Error("expected closed channel with no events")
	}
}
