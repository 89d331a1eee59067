package discovery

import (
	"errors"
	"strings"
	"time"
)

// Service type constants for mDNS.
const (
	// ServiceTypeOSC is the service type the bridge advertises.
	ServiceTypeOSC = "_osc._udp"

	// ServiceTypeMonome is the service type serialosc uses per device.
	ServiceTypeMonome = "_monome-osc._udp"

	// Domain is the mDNS domain.
	Domain = "local"
)

// TXT record key constants.
const (
	TXTKeySession    = "sid" // Runtime session ID
	TXTKeyRemotePort = "rp"  // Port outgoing OSC is sent to
)

// Limits.
const (
	// MaxInstanceNameLen is the DNS label limit.
	MaxInstanceNameLen = 63

	// DefaultTTL is the record TTL used when none is configured.
	DefaultTTL = 120 * time.Second
)

// Errors.
var (
	ErrInstanceNameTooLong = errors.New("instance name exceeds 63 characters")
	ErrInvalidPort         = errors.New("invalid port")
	ErrNotAdvertising      = errors.New("not advertising")
	ErrBrowserStopped      = errors.New("browser stopped")
)

// AdvertiseInfo describes the bridge's OSC endpoint.
type AdvertiseInfo struct {
	// InstanceName is the user-facing name, e.g. "spindle on studio".
	InstanceName string

	// Port is the OSC listen port.
	Port uint16

	// RemotePort is the port outgoing messages are sent to (optional).
	RemotePort uint16

	// SessionID identifies the current runtime session (optional).
	SessionID string
}

// DeviceService is a controller announced by serialosc.
type DeviceService struct {
	InstanceName string
	Serial       string
	Name         string
	Host         string
	Port         uint16
	Addresses    []string

	// Removed is set when every address of the service has gone away.
	Removed bool
}

// ParseInstance splits a serialosc instance name of the form
// "monome 128 (m1000123)" into model name and serial. Instances without a
// parenthesised serial return the whole name as both.
func ParseInstance(instance string) (name, serial string) {
	instance = strings.TrimSpace(instance)
	open := strings.LastIndexByte(instance, '(')
	if open < 0 || !strings.HasSuffix(instance, ")") {
		return instance, instance
	}
	serial = strings.TrimSpace(instance[open+1 : len(instance)-1])
	name = strings.TrimSpace(instance[:open])
	if serial == "" {
		return instance, instance
	}
	if name == "" {
		name = serial
	}
	return name, serial
}
