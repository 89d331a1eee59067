package service

import (
	"errors"
	"io"
	"log/slog"

	"github.com/stitchworks/spindle/pkg/device"
	"github.com/stitchworks/spindle/pkg/log"
	"github.com/stitchworks/spindle/pkg/osc"
)

// Service errors.
var (
	ErrNotStarted     = errors.New("service not started")
	ErrAlreadyStarted = errors.New("service already started")
	ErrQueueFull      = errors.New("event queue full")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// ServiceState represents the service state.
type ServiceState uint8

const (
	// StateIdle - service created but not started.
	StateIdle ServiceState = iota

	// StateRunning - the runtime is live and events are dispatched.
	StateRunning

	// StateTearingDown - the runtime is being replaced after a reset
	// request. Events keep queueing.
	StateTearingDown

	// StateStopped - service has stopped.
	StateStopped
)

// String returns the state name.
func (s ServiceState) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateRunning:
		return "RUNNING"
	case StateTearingDown:
		return "TEARING_DOWN"
	case StateStopped:
		return "STOPPED"
	default:
		return "UNKNOWN"
	}
}

// DefaultQueueSize bounds the event queue.
const DefaultQueueSize = 256

// Config configures a Service.
type Config struct {
	// Registry holds attached devices. Drivers attach and the service
	// detaches on DeviceRemoved.
	Registry *device.Registry

	// Sender delivers outbound OSC for osc_send.
	Sender osc.Sender

	// Script is the entry script passed to _startup on every runtime
	// generation.
	Script string

	// LocalPort and RemotePort are exposed to scripts.
	LocalPort  string
	RemotePort string

	// LuaConfigPath overrides the Lua config file location.
	LuaConfigPath string

	// QueueSize bounds pending events (default: 256).
	QueueSize int

	// Stdout receives script print output.
	Stdout io.Writer

	// NewSessionID returns the ID for a new runtime generation
	// (default: random UUID).
	NewSessionID func() string

	// Logger is the optional operational logger.
	Logger *slog.Logger

	// ProtocolLogger records dispatched events and state changes (optional).
	ProtocolLogger log.Logger
}
