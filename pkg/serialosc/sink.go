package serialosc

import "github.com/stitchworks/spindle/pkg/device"

// Sink receives device lifecycle and input events. Coordinates are
// zero-based. Calls arrive on the driver's read goroutine and must not
// block.
type Sink interface {
	DeviceAdded(h device.Handle, serial, name string)
	DeviceRemoved(h device.Handle)
	GridKey(h device.Handle, x, y int, pressed bool)
	GridTilt(h device.Handle, sensor, x, y, z int)
	ArcDelta(h device.Handle, ring, delta int)
	ArcKey(h device.Handle, ring int, pressed bool)
}
