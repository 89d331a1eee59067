package service

import (
	"github.com/stitchworks/spindle/pkg/device"
	"github.com/stitchworks/spindle/pkg/osc"
)

// Event is something for the scripting environment to handle. Drivers,
// the OSC server and the console post events; only the service loop
// consumes them. Positions and identities are zero-based.
type Event interface {
	eventName() string
}

// DeviceAdded announces a device the driver has attached to the registry.
type DeviceAdded struct {
	Handle device.Handle
	Serial string
	Name   string
}

// DeviceRemoved reports a device that went away. The service detaches it.
type DeviceRemoved struct {
	Handle device.Handle
}

// GridKey is a grid key press or release.
type GridKey struct {
	Handle  device.Handle
	X, Y    int
	Pressed bool
}

// GridTilt is a tilt sensor reading.
type GridTilt struct {
	Handle  device.Handle
	Sensor  int
	X, Y, Z int
}

// ArcDelta is an encoder rotation.
type ArcDelta struct {
	Handle device.Handle
	Ring   int
	Delta  int
}

// ArcKey is an encoder push or release.
type ArcKey struct {
	Handle  device.Handle
	Ring    int
	Pressed bool
}

// OSCMessage is an inbound OSC message.
type OSCMessage struct {
	From    osc.Address
	Message *osc.Message
}

// ExecLine is a line of Lua typed at the console.
type ExecLine struct {
	Code string
}

func (DeviceAdded) eventName() string   { return "monome.add" }
func (DeviceRemoved) eventName() string { return "monome.remove" }
func (GridKey) eventName() string       { return "grid.key" }
func (GridTilt) eventName() string      { return "grid.tilt" }
func (ArcDelta) eventName() string      { return "arc.delta" }
func (ArcKey) eventName() string        { return "arc.key" }
func (OSCMessage) eventName() string    { return "osc.event" }
func (ExecLine) eventName() string      { return "console" }
