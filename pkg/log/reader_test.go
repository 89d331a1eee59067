package log

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func createTestLogFile(t *testing.T, events []Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.plog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create test log: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()
	return path
}

func readAll(t *testing.T, r *Reader) []Event {
	t.Helper()
	var out []Event
	for {
		ev, err := r.Next()
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		out = append(out, ev)
	}
}

func TestReaderHandlesEmptyFile(t *testing.T) {
	path := createTestLogFile(t, nil)

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	if _, err := reader.Next(); err != io.EOF {
		t.Errorf("Next on empty file = %v, want io.EOF", err)
	}
}

func TestReaderHandlesTruncatedFile(t *testing.T) {
	path := createTestLogFile(t, []Event{
		{Timestamp: time.Now(), SessionID: "complete"},
		{Timestamp: time.Now(), SessionID: "will-be-truncated"},
	})

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data[:len(data)-5], 0644); err != nil {
		t.Fatal(err)
	}

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	ev, err := reader.Next()
	if err != nil {
		t.Fatalf("first Next failed: %v", err)
	}
	if ev.SessionID != "complete" {
		t.Errorf("SessionID = %q, want %q", ev.SessionID, "complete")
	}
	if _, err := reader.Next(); err == nil || err == io.EOF {
		t.Errorf("Next on truncated event = %v, want decode error", err)
	}
}

func TestReaderFilterByLayer(t *testing.T) {
	path := createTestLogFile(t, []Event{
		{Timestamp: time.Now(), Layer: LayerNetwork},
		{Timestamp: time.Now(), Layer: LayerDevice},
		{Timestamp: time.Now(), Layer: LayerDevice},
	})

	layer := LayerDevice
	reader, err := NewFilteredReader(path, Filter{Layer: &layer})
	if err != nil {
		t.Fatalf("NewFilteredReader failed: %v", err)
	}
	defer reader.Close()

	if got := len(readAll(t, reader)); got != 2 {
		t.Errorf("got %d device events, want 2", got)
	}
}

func TestReaderFilterByPathPrefix(t *testing.T) {
	path := createTestLogFile(t, []Event{
		{Timestamp: time.Now(), Message: &MessageEvent{Path: "/synth/freq"}},
		{Timestamp: time.Now(), Message: &MessageEvent{Path: "/fx/verb"}},
		{Timestamp: time.Now(), Device: &DeviceEvent{Type: DeviceEventGridKey}},
	})

	reader, err := NewFilteredReader(path, Filter{PathPrefix: "/synth"})
	if err != nil {
		t.Fatalf("NewFilteredReader failed: %v", err)
	}
	defer reader.Close()

	events := readAll(t, reader)
	if len(events) != 1 || events[0].Message.Path != "/synth/freq" {
		t.Errorf("got %+v, want only /synth/freq", events)
	}
}

func TestReaderFilterByTimeRange(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	path := createTestLogFile(t, []Event{
		{Timestamp: base},
		{Timestamp: base.Add(time.Second)},
		{Timestamp: base.Add(2 * time.Second)},
	})

	start := base.Add(500 * time.Millisecond)
	end := base.Add(2 * time.Second)
	reader, err := NewFilteredReader(path, Filter{TimeStart: &start, TimeEnd: &end})
	if err != nil {
		t.Fatalf("NewFilteredReader failed: %v", err)
	}
	defer reader.Close()

	events := readAll(t, reader)
	if len(events) != 1 || !events[0].Timestamp.Equal(base.Add(time.Second)) {
		t.Errorf("got %d events, want exactly the middle one", len(events))
	}
}
