package osc

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/stitchworks/spindle/pkg/value"
)

// Message is an OSC message: an address pattern and typed arguments.
type Message struct {
	Path string
	Args []value.Value

	// Tags is the type-tag string (without the leading comma) as it
	// appeared on the wire. It is empty for locally built messages; use
	// TypeTags to compute one.
	Tags string
}

// NewMessage builds a message.
func NewMessage(path string, args ...value.Value) *Message {
	return &Message{Path: path, Args: args}
}

// TypeTags returns the wire tags, as received or as Marshal would write them.
func (m *Message) TypeTags() string {
	if m.Tags != "" {
		return m.Tags
	}
	var b strings.Builder
	for _, a := range m.Args {
		b.WriteByte(tagFor(a))
	}
	return b.String()
}

// String formats the message for diagnostics.
func (m *Message) String() string {
	parts := make([]string, len(m.Args))
	for i, a := range m.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s ,%s %s", m.Path, m.TypeTags(), strings.Join(parts, " "))
}

// ValidatePath checks that path can be written as an OSC address.
func ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("%w: empty", ErrInvalidPath)
	}
	if path[0] == '#' {
		return fmt.Errorf("%w: %q is reserved for bundles", ErrInvalidPath, path)
	}
	if strings.IndexByte(path, 0) >= 0 {
		return fmt.Errorf("%w: contains NUL", ErrInvalidPath)
	}
	return nil
}

// Address is an OSC peer. Both fields are text, matching how scripts
// supply them.
type Address struct {
	Host string
	Port string
}

// Validate checks that both fields are present and the port is numeric.
func (a Address) Validate() error {
	if a.Host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidAddr)
	}
	p, err := strconv.Atoi(a.Port)
	if err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("%w: bad port %q", ErrInvalidAddr, a.Port)
	}
	return nil
}

// String returns host:port.
func (a Address) String() string {
	return net.JoinHostPort(a.Host, a.Port)
}

// AddressFromUDP converts a UDP address into an Address.
func AddressFromUDP(addr *net.UDPAddr) Address {
	if addr == nil {
		return Address{}
	}
	return Address{Host: addr.IP.String(), Port: strconv.Itoa(addr.Port)}
}
