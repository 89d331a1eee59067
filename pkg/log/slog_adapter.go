package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes protocol events to an slog.Logger at Debug level.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a SlogAdapter.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("direction", event.Direction.String()),
		slog.String("layer", event.Layer.String()),
		slog.String("category", event.Category.String()),
	}
	if event.SessionID != "" {
		attrs = append(attrs, slog.String("session", event.SessionID))
	}
	if event.RemoteAddr != "" {
		attrs = append(attrs, slog.String("remote", event.RemoteAddr))
	}
	if event.DeviceSerial != "" {
		attrs = append(attrs, slog.String("serial", event.DeviceSerial))
	}

	switch {
	case event.Message != nil:
		args := make([]string, len(event.Message.Args))
		for i, v := range event.Message.Args {
			args[i] = v.String()
		}
		attrs = append(attrs,
			slog.String("path", event.Message.Path),
			slog.String("tags", event.Message.Tags),
			slog.Any("args", args),
		)
	case event.Device != nil:
		attrs = append(attrs,
			slog.String("device_event", event.Device.Type.String()),
			slog.Int("device_id", event.Device.DeviceID),
			slog.Any("values", event.Device.Values),
		)
		if event.Device.Command != "" {
			attrs = append(attrs, slog.String("command", event.Device.Command))
		}
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("entity", event.StateChange.Entity.String()),
			slog.String("old_state", event.StateChange.OldState),
			slog.String("new_state", event.StateChange.NewState),
		)
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error_layer", event.Error.Layer.String()),
			slog.String("error_msg", event.Error.Message),
			slog.String("error_context", event.Error.Context),
		)
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "protocol", attrs...)
}

var _ Logger = (*SlogAdapter)(nil)
