package log

import (
	"testing"
	"time"

	"github.com/stitchworks/spindle/pkg/value"
)

func TestNoopLoggerDoesNotPanic(t *testing.T) {
	logger := NoopLogger{}

	event := Event{
		Timestamp: time.Now(),
		SessionID: "test-session",
		Direction: DirectionIn,
		Layer:     LayerNetwork,
		Category:  CategoryMessage,
	}
	logger.Log(event)

	event.Message = &MessageEvent{Path: "/x", Args: []value.Value{value.Int(1)}}
	logger.Log(event)

	event.Message = nil
	event.Device = &DeviceEvent{Type: DeviceEventGridKey, Values: []int{0, 0, 1}}
	logger.Log(event)

	event.Device = nil
	event.Error = &ErrorEventData{Message: "test error"}
	logger.Log(event)
}

func TestOrNoop(t *testing.T) {
	if _, ok := OrNoop(nil).(NoopLogger); !ok {
		t.Error("OrNoop(nil) should return NoopLogger")
	}
	m := &recordingLogger{}
	if OrNoop(m) != Logger(m) {
		t.Error("OrNoop should return a non-nil logger unchanged")
	}
}

func TestNoopLoggerIsZeroValue(t *testing.T) {
	var logger NoopLogger
	logger.Log(Event{})
}
