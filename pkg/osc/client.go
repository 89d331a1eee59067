package osc

import (
	"fmt"
	"log/slog"
	"net"

	"github.com/stitchworks/spindle/pkg/log"
)

// ClientConfig configures a Client.
type ClientConfig struct {
	// LocalAddress to bind (default: any address, ephemeral port).
	LocalAddress string

	// Logger is the optional operational logger.
	Logger *slog.Logger

	// ProtocolLogger records outbound messages (optional).
	ProtocolLogger log.Logger
}

// Client sends OSC messages from its own UDP socket. Use Server.Send
// instead when peers should reply to the bridge's listen port.
type Client struct {
	conn   *net.UDPConn
	logger *slog.Logger
	plog   log.Logger
}

// NewClient opens a UDP socket for sending.
func NewClient(config ClientConfig) (*Client, error) {
	laddr := &net.UDPAddr{}
	if config.LocalAddress != "" {
		var err error
		laddr, err = net.ResolveUDPAddr("udp", config.LocalAddress)
		if err != nil {
			return nil, fmt.Errorf("resolve local address: %w", err)
		}
	}
	conn, err := net.ListenUDP("udp", laddr)
	if err != nil {
		return nil, fmt.Errorf("open udp socket: %w", err)
	}
	return &Client{
		conn:   conn,
		logger: discardIfNil(config.Logger),
		plog:   log.OrNoop(config.ProtocolLogger),
	}, nil
}

// Send encodes msg and sends it to addr.
func (c *Client) Send(addr Address, msg *Message) error {
	if err := sendTo(c.conn, c.plog, addr, msg); err != nil {
		c.logger.Debug("osc send failed", "addr", addr.String(), "path", msg.Path, "error", err)
		return err
	}
	return nil
}

// LocalAddr returns the socket's bound address.
func (c *Client) LocalAddr() net.Addr {
	return c.conn.LocalAddr()
}

// Close closes the socket.
func (c *Client) Close() error {
	return c.conn.Close()
}

var _ Sender = (*Client)(nil)
