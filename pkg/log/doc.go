// Package log provides structured protocol capture for spindle.
//
// This package defines the Logger interface and Event types for recording
// what crosses the bridge: OSC messages in and out, device input and LED
// commands, and runtime lifecycle changes. It is separate from operational
// logging (slog) - protocol capture is a machine-readable trace meant for
// replay and analysis with the spindle-log tool.
//
// # Basic Usage
//
//	// For development: log to console via slog
//	cfg.ProtocolLogger = log.NewSlogAdapter(slog.Default())
//
//	// For a session recording: write to a CBOR file
//	cfg.ProtocolLogger, _ = log.NewFileLogger("/tmp/session.plog")
//
//	// Both
//	cfg.ProtocolLogger = log.NewMultiLogger(console, file)
//
// # Event Types
//
// Events are captured at three layers:
//   - Network: OSC messages (MessageEvent)
//   - Device: grid/arc input and output (DeviceEvent)
//   - Runtime: scripting environment lifecycle (StateChangeEvent)
//
// Errors at any layer use ErrorEventData.
//
// # File Format
//
// Log files are a stream of CBOR-encoded events, conventionally with the
// .plog extension.
package log
