package service

import (
	"github.com/stitchworks/spindle/pkg/device"
	"github.com/stitchworks/spindle/pkg/osc"
)

// The methods below let drivers and the OSC server feed the loop
// directly. Each posts one event; a full queue drops it with a warning.

// DeviceAdded posts a DeviceAdded event.
func (s *Service) DeviceAdded(h device.Handle, serial, name string) {
	_ = s.Post(DeviceAdded{Handle: h, Serial: serial, Name: name})
}

// DeviceRemoved posts a DeviceRemoved event.
func (s *Service) DeviceRemoved(h device.Handle) {
	_ = s.Post(DeviceRemoved{Handle: h})
}

// GridKey posts a GridKey event.
func (s *Service) GridKey(h device.Handle, x, y int, pressed bool) {
	_ = s.Post(GridKey{Handle: h, X: x, Y: y, Pressed: pressed})
}

// GridTilt posts a GridTilt event.
func (s *Service) GridTilt(h device.Handle, sensor, x, y, z int) {
	_ = s.Post(GridTilt{Handle: h, Sensor: sensor, X: x, Y: y, Z: z})
}

// ArcDelta posts an ArcDelta event.
func (s *Service) ArcDelta(h device.Handle, ring, delta int) {
	_ = s.Post(ArcDelta{Handle: h, Ring: ring, Delta: delta})
}

// ArcKey posts an ArcKey event.
func (s *Service) ArcKey(h device.Handle, ring int, pressed bool) {
	_ = s.Post(ArcKey{Handle: h, Ring: ring, Pressed: pressed})
}

// OSCMessage posts an inbound OSC message. It has the signature of
// osc.ServerConfig.OnMessage.
func (s *Service) OSCMessage(from osc.Address, msg *osc.Message) {
	_ = s.Post(OSCMessage{From: from, Message: msg})
}
