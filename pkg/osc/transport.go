package osc

import (
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/stitchworks/spindle/pkg/log"
)

// DefaultMaxPacketSize bounds inbound datagrams.
const DefaultMaxPacketSize = 64 * 1024

// Sender delivers an encoded message to a peer. Implemented by Client
// and Server.
type Sender interface {
	Send(addr Address, msg *Message) error
}

func discardIfNil(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l
}

// sendTo validates, encodes and writes one datagram. Validation and
// encoding finish before anything touches the socket.
func sendTo(conn *net.UDPConn, plog log.Logger, addr Address, msg *Message) error {
	if err := addr.Validate(); err != nil {
		return err
	}
	data, err := Marshal(msg)
	if err != nil {
		return err
	}
	if len(data) > DefaultMaxPacketSize {
		return fmt.Errorf("%w: %d bytes", ErrPacketTooLong, len(data))
	}
	udpAddr, err := net.ResolveUDPAddr("udp", addr.String())
	if err != nil {
		return fmt.Errorf("resolve %s: %w", addr, err)
	}
	if _, err := conn.WriteToUDP(data, udpAddr); err != nil {
		return fmt.Errorf("send to %s: %w", addr, err)
	}

	plog.Log(log.Event{
		Timestamp:  time.Now(),
		Direction:  log.DirectionOut,
		Layer:      log.LayerNetwork,
		Category:   log.CategoryMessage,
		RemoteAddr: addr.String(),
		Message: &log.MessageEvent{
			Path: msg.Path,
			Tags: msg.TypeTags(),
			Args: msg.Args,
			Size: len(data),
		},
	})
	return nil
}
