package log

import (
	"sync"
	"testing"
	"time"
)

type recordingLogger struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingLogger) Log(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func TestMultiLoggerCallsAll(t *testing.T) {
	a, b := &recordingLogger{}, &recordingLogger{}
	multi := NewMultiLogger(a, nil, b)

	multi.Log(Event{Timestamp: time.Now(), SessionID: "s-1"})

	for i, r := range []*recordingLogger{a, b} {
		if len(r.events) != 1 {
			t.Errorf("logger %d: got %d events, want 1", i, len(r.events))
			continue
		}
		if r.events[0].SessionID != "s-1" {
			t.Errorf("logger %d: SessionID = %q, want %q", i, r.events[0].SessionID, "s-1")
		}
	}
}

func TestMultiLoggerEmptyList(t *testing.T) {
	NewMultiLogger().Log(Event{})
}
