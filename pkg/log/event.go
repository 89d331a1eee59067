package log

import (
	"time"

	"github.com/stitchworks/spindle/pkg/value"
)

// Event is a protocol event captured at any layer.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies the scripting runtime generation (UUID).
	// A runtime reset starts a new session.
	SessionID string `cbor:"2,keyasint,omitempty"`

	// Direction indicates flow relative to the bridge.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event.
	Category Category `cbor:"5,keyasint"`

	// RemoteAddr is the OSC peer (host:port), if any.
	RemoteAddr string `cbor:"6,keyasint,omitempty"`

	// DeviceSerial is the serial of the controller involved, if any.
	DeviceSerial string `cbor:"7,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Message     *MessageEvent     `cbor:"10,keyasint,omitempty"`
	Device      *DeviceEvent      `cbor:"11,keyasint,omitempty"`
	StateChange *StateChangeEvent `cbor:"12,keyasint,omitempty"`
	Error       *ErrorEventData   `cbor:"13,keyasint,omitempty"`
}

// Direction indicates the flow of an event relative to the bridge.
type Direction uint8

const (
	// DirectionIn is an event arriving at the bridge.
	DirectionIn Direction = 0
	// DirectionOut is an event leaving the bridge.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which side of the bridge captured the event.
type Layer uint8

const (
	// LayerNetwork is the OSC network side.
	LayerNetwork Layer = 0
	// LayerDevice is the grid/arc controller side.
	LayerDevice Layer = 1
	// LayerRuntime is the scripting environment.
	LayerRuntime Layer = 2
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerNetwork:
		return "NETWORK"
	case LayerDevice:
		return "DEVICE"
	case LayerRuntime:
		return "RUNTIME"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryMessage is an OSC message.
	CategoryMessage Category = 0
	// CategoryDevice is device input or an LED/config command.
	CategoryDevice Category = 1
	// CategoryState is a lifecycle state change.
	CategoryState Category = 2
	// CategoryError is an error at any layer.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryMessage:
		return "MESSAGE"
	case CategoryDevice:
		return "DEVICE"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// MessageEvent captures an OSC message.
type MessageEvent struct {
	// Path is the OSC address pattern.
	Path string `cbor:"1,keyasint"`

	// Tags is the type-tag string without the leading comma.
	Tags string `cbor:"2,keyasint,omitempty"`

	// Args are the decoded (or to-be-encoded) arguments.
	Args []value.Value `cbor:"3,keyasint,omitempty"`

	// Size is the encoded datagram size in bytes, when known.
	Size int `cbor:"4,keyasint,omitempty"`
}

// DeviceEvent captures controller input and output.
type DeviceEvent struct {
	// Type of device event.
	Type DeviceEventType `cbor:"1,keyasint"`

	// DeviceID is the zero-based driver identity.
	DeviceID int `cbor:"2,keyasint"`

	// Name is the device model name (attach only).
	Name string `cbor:"3,keyasint,omitempty"`

	// Values holds the event's integer payload in driver (zero-based)
	// coordinates, e.g. x, y, state for a grid key.
	Values []int `cbor:"4,keyasint,omitempty"`

	// Command names the output operation for DeviceEventCommand.
	Command string `cbor:"5,keyasint,omitempty"`
}

// DeviceEventType distinguishes device events.
type DeviceEventType uint8

const (
	DeviceEventAttach   DeviceEventType = 0
	DeviceEventDetach   DeviceEventType = 1
	DeviceEventGridKey  DeviceEventType = 2
	DeviceEventTilt     DeviceEventType = 3
	DeviceEventEncDelta DeviceEventType = 4
	DeviceEventEncKey   DeviceEventType = 5
	DeviceEventCommand  DeviceEventType = 6
)

// String returns the device event type name.
func (t DeviceEventType) String() string {
	switch t {
	case DeviceEventAttach:
		return "ATTACH"
	case DeviceEventDetach:
		return "DETACH"
	case DeviceEventGridKey:
		return "GRID_KEY"
	case DeviceEventTilt:
		return "TILT"
	case DeviceEventEncDelta:
		return "ENC_DELTA"
	case DeviceEventEncKey:
		return "ENC_KEY"
	case DeviceEventCommand:
		return "COMMAND"
	default:
		return "UNKNOWN"
	}
}

// StateChangeEvent captures lifecycle transitions.
type StateChangeEvent struct {
	// Entity being changed.
	Entity StateEntity `cbor:"1,keyasint"`

	// OldState is the previous state (may be empty).
	OldState string `cbor:"2,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"3,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"4,keyasint,omitempty"`
}

// StateEntity indicates what changed state.
type StateEntity uint8

const (
	// StateEntityService is the owning process loop.
	StateEntityService StateEntity = 0
	// StateEntityRuntime is the scripting environment.
	StateEntityRuntime StateEntity = 1
	// StateEntityTransport is the OSC listener.
	StateEntityTransport StateEntity = 2
)

// String returns the state entity name.
func (s StateEntity) String() string {
	switch s {
	case StateEntityService:
		return "SERVICE"
	case StateEntityRuntime:
		return "RUNTIME"
	case StateEntityTransport:
		return "TRANSPORT"
	default:
		return "UNKNOWN"
	}
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Context describes what operation was being performed,
	// e.g. "grid.key" or "decode".
	Context string `cbor:"3,keyasint,omitempty"`
}
