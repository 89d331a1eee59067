// Package commands implements the spindle-log CLI commands.
package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/stitchworks/spindle/pkg/log"
)

// ViewFilter specifies criteria for filtering events in the view command.
type ViewFilter struct {
	Layer      *log.Layer
	Direction  *log.Direction
	Category   *log.Category
	PathPrefix string
}

func (f ViewFilter) logFilter() log.Filter {
	return log.Filter{
		Layer:      f.Layer,
		Direction:  f.Direction,
		Category:   f.Category,
		PathPrefix: f.PathPrefix,
	}
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [session:id] DIRECTION LAYER Type
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	session := shortenSessionID(event.SessionID)
	dir := event.Direction.String()

	var typeLabel string
	switch {
	case event.Message != nil:
		typeLabel = event.Message.Path
	case event.Device != nil:
		typeLabel = event.Device.Type.String()
	case event.StateChange != nil:
		typeLabel = "State"
	case event.Error != nil:
		typeLabel = "Error"
	default:
		typeLabel = "Unknown"
	}

	fmt.Fprintf(w, "%s [session:%s] %-3s %s %s\n", ts, session, dir, event.Layer.String(), typeLabel)

	if event.RemoteAddr != "" {
		fmt.Fprintf(w, "  Remote: %s\n", event.RemoteAddr)
	}
	if event.DeviceSerial != "" {
		fmt.Fprintf(w, "  Serial: %s\n", event.DeviceSerial)
	}

	switch {
	case event.Message != nil:
		formatMessageDetails(w, event.Message)
	case event.Device != nil:
		formatDeviceDetails(w, event.Device)
	case event.StateChange != nil:
		formatStateChangeDetails(w, event.StateChange)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w) // Blank line between events
}

// shortenSessionID returns the first 8 characters of the session ID.
func shortenSessionID(id string) string {
	if id == "" {
		return "-"
	}
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

// formatMessageDetails writes OSC message details.
func formatMessageDetails(w io.Writer, msg *log.MessageEvent) {
	fmt.Fprintf(w, "  Tags: ,%s\n", msg.Tags)
	if len(msg.Args) > 0 {
		args := make([]string, len(msg.Args))
		for i, a := range msg.Args {
			args[i] = a.String()
		}
		fmt.Fprintf(w, "  Args: %s\n", strings.Join(args, " "))
	}
	if msg.Size > 0 {
		fmt.Fprintf(w, "  Size: %d bytes\n", msg.Size)
	}
}

// formatDeviceDetails writes device event details.
func formatDeviceDetails(w io.Writer, dev *log.DeviceEvent) {
	fmt.Fprintf(w, "  Device: %d", dev.DeviceID)
	if dev.Name != "" {
		fmt.Fprintf(w, " (%s)", dev.Name)
	}
	fmt.Fprintln(w)
	if dev.Command != "" {
		fmt.Fprintf(w, "  Command: %s\n", dev.Command)
	}
	if len(dev.Values) > 0 {
		fmt.Fprintf(w, "  Values: %v\n", dev.Values)
	}
}

// formatStateChangeDetails writes state change details.
func formatStateChangeDetails(w io.Writer, sc *log.StateChangeEvent) {
	fmt.Fprintf(w, "  Entity: %s\n", sc.Entity.String())
	if sc.OldState != "" {
		fmt.Fprintf(w, "  %s -> %s\n", sc.OldState, sc.NewState)
	} else {
		fmt.Fprintf(w, "  -> %s\n", sc.NewState)
	}
	if sc.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", sc.Reason)
	}
}

// formatErrorDetails writes error details.
func formatErrorDetails(w io.Writer, err *log.ErrorEventData) {
	fmt.Fprintf(w, "  Layer: %s\n", err.Layer.String())
	fmt.Fprintf(w, "  Message: %s\n", err.Message)
	if err.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", err.Context)
	}
}

// ParseLayerFlag parses a layer string from command-line flag (case-insensitive).
func ParseLayerFlag(s string) (log.Layer, error) {
	return parseLayer(s)
}

// parseLayer parses a layer string (case-insensitive).
func parseLayer(s string) (log.Layer, error) {
	switch strings.ToLower(s) {
	case "network":
		return log.LayerNetwork, nil
	case "device":
		return log.LayerDevice, nil
	case "runtime":
		return log.LayerRuntime, nil
	default:
		return 0, fmt.Errorf("invalid layer: %s (must be network, device, or runtime)", s)
	}
}

// ParseDirectionFlag parses a direction string from command-line flag (case-insensitive).
func ParseDirectionFlag(s string) (log.Direction, error) {
	return parseDirection(s)
}

// parseDirection parses a direction string (case-insensitive).
func parseDirection(s string) (log.Direction, error) {
	switch strings.ToLower(s) {
	case "in":
		return log.DirectionIn, nil
	case "out":
		return log.DirectionOut, nil
	default:
		return 0, fmt.Errorf("invalid direction: %s (must be in or out)", s)
	}
}

// ParseCategoryFlag parses a category string from command-line flag (case-insensitive).
func ParseCategoryFlag(s string) (log.Category, error) {
	return parseCategory(s)
}

// parseCategory parses a category string (case-insensitive).
func parseCategory(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "message":
		return log.CategoryMessage, nil
	case "device":
		return log.CategoryDevice, nil
	case "state":
		return log.CategoryState, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be message, device, state, or error)", s)
	}
}

// RunView executes the view command.
func RunView(path string, filter ViewFilter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter.logFilter())
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(output, event)
	}

	return nil
}
