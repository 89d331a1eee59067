package commands

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/stitchworks/spindle/pkg/log"
)

// exporters maps a -format value to its writer.
var exporters = map[string]func(*log.Reader, io.Writer) error{
	"jsonl": exportJSONL,
	"csv":   exportCSV,
}

var csvHeader = []string{
	"timestamp", "session_id", "direction", "layer", "category",
	"remote", "serial", "type", "detail",
}

// csvTime keeps microseconds, enough to order OSC bursts.
const csvTime = "2006-01-02T15:04:05.000000Z"

// RunExport writes every event in the log at path to output, or stdout
// when output is empty.
func RunExport(path, format, output string) error {
	export, ok := exporters[format]
	if !ok {
		return fmt.Errorf("unknown format %q (supported: jsonl, csv)", format)
	}

	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	if output == "" {
		return export(reader, os.Stdout)
	}
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := export(reader, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// eachEvent calls fn for every event until the end of the log.
func eachEvent(reader *log.Reader, fn func(log.Event) error) error {
	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := fn(event); err != nil {
			return err
		}
	}
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	enc := json.NewEncoder(w)
	return eachEvent(reader, func(event log.Event) error {
		if err := enc.Encode(event); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
		return nil
	})
}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	err := eachEvent(reader, func(event log.Event) error {
		return cw.Write(csvRecord(event))
	})
	cw.Flush()
	if err != nil {
		return err
	}
	return cw.Error()
}

// csvRecord flattens one event into a row.
func csvRecord(event log.Event) []string {
	kind, detail := summarize(event)
	return []string{
		event.Timestamp.UTC().Format(csvTime),
		event.SessionID,
		event.Direction.String(),
		event.Layer.String(),
		event.Category.String(),
		event.RemoteAddr,
		event.DeviceSerial,
		kind,
		detail,
	}
}

// summarize names the payload an event carries and picks its most useful
// field: the OSC path, the registry slot, the new state or the error.
func summarize(event log.Event) (kind, detail string) {
	switch {
	case event.Message != nil:
		return "message", event.Message.Path
	case event.Device != nil:
		return event.Device.Type.String(), strconv.Itoa(event.Device.DeviceID)
	case event.StateChange != nil:
		return "state", event.StateChange.NewState
	case event.Error != nil:
		return "error", event.Error.Message
	}
	return "unknown", ""
}
