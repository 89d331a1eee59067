package osc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/stitchworks/spindle/pkg/log"
)

// ServerConfig configures a Server.
type ServerConfig struct {
	// Address to listen on (e.g. ":7777").
	Address string

	// MaxPacketSize bounds inbound datagrams (default: 64KB).
	MaxPacketSize int

	// Logger is the optional operational logger.
	Logger *slog.Logger

	// ProtocolLogger records inbound and outbound messages (optional).
	ProtocolLogger log.Logger

	// OnMessage is called from the read goroutine for every decoded
	// message, bundle contents included. It must hand off quickly.
	OnMessage func(from Address, msg *Message)

	// OnError is called for datagrams that fail to decode.
	OnError func(from Address, err error)
}

// Server receives OSC datagrams on a UDP port.
type Server struct {
	config  ServerConfig
	logger  *slog.Logger
	plog    log.Logger
	decoder Decoder

	conn    *net.UDPConn
	running atomic.Bool
	wg      sync.WaitGroup
	cancel  context.CancelFunc
}

// NewServer creates a server. Call Start to begin listening.
func NewServer(config ServerConfig) (*Server, error) {
	if config.Address == "" {
		return nil, fmt.Errorf("%w: listen address is required", ErrInvalidAddr)
	}
	if config.MaxPacketSize <= 0 {
		config.MaxPacketSize = DefaultMaxPacketSize
	}

	s := &Server{
		config: config,
		logger: discardIfNil(config.Logger),
		plog:   log.OrNoop(config.ProtocolLogger),
	}
	s.decoder.OnUnknownTag = func(e *UnknownTagError) {
		s.logger.Warn("unknown osc typetag", "tag", string(e.Tag), "index", e.Index, "path", e.Path)
		s.plog.Log(log.Event{
			Timestamp: time.Now(),
			Direction: log.DirectionIn,
			Layer:     log.LayerNetwork,
			Category:  log.CategoryError,
			Error: &log.ErrorEventData{
				Layer:   log.LayerNetwork,
				Message: e.Error(),
				Context: "decode",
			},
		})
	}
	return s, nil
}

// Start binds the socket and starts the read goroutine.
func (s *Server) Start(ctx context.Context) error {
	if s.running.Load() {
		return errors.New("osc server already running")
	}
	addr, err := net.ResolveUDPAddr("udp", s.config.Address)
	if err != nil {
		return fmt.Errorf("resolve listen address: %w", err)
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.config.Address, err)
	}
	s.conn = conn
	s.running.Store(true)

	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go s.readLoop(ctx)

	// Unblock ReadFromUDP when the context ends.
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	s.logger.Info("osc server listening", "addr", conn.LocalAddr().String())
	s.plog.Log(log.Event{
		Timestamp:   time.Now(),
		Layer:       log.LayerNetwork,
		Category:    log.CategoryState,
		StateChange: &log.StateChangeEvent{Entity: log.StateEntityTransport, NewState: "LISTENING", Reason: conn.LocalAddr().String()},
	})
	return nil
}

// Stop closes the socket and waits for the read goroutine.
func (s *Server) Stop() error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}
	s.cancel()
	s.wg.Wait()
	return nil
}

// Addr returns the bound address, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.conn == nil {
		return nil
	}
	return s.conn.LocalAddr()
}

// Send sends msg from the listen socket so replies reach this server.
func (s *Server) Send(addr Address, msg *Message) error {
	if !s.running.Load() {
		return ErrNotRunning
	}
	if err := sendTo(s.conn, s.plog, addr, msg); err != nil {
		s.logger.Debug("osc send failed", "addr", addr.String(), "path", msg.Path, "error", err)
		return err
	}
	return nil
}

func (s *Server) readLoop(ctx context.Context) {
	defer s.wg.Done()

	buf := make([]byte, s.config.MaxPacketSize)
	for {
		n, from, err := s.conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Warn("osc read failed", "error", err)
			continue
		}
		s.handlePacket(AddressFromUDP(from), buf[:n])
	}
}

func (s *Server) handlePacket(from Address, data []byte) {
	msgs, err := s.decoder.DecodePacket(data)
	if err != nil {
		s.logger.Warn("dropping osc packet", "from", from.String(), "error", err)
		if s.config.OnError != nil {
			s.config.OnError(from, err)
		}
		return
	}

	for _, m := range msgs {
		s.plog.Log(log.Event{
			Timestamp:  time.Now(),
			Direction:  log.DirectionIn,
			Layer:      log.LayerNetwork,
			Category:   log.CategoryMessage,
			RemoteAddr: from.String(),
			Message:    &log.MessageEvent{Path: m.Path, Tags: m.Tags, Args: m.Args, Size: len(data)},
		})
		if s.config.OnMessage != nil {
			s.config.OnMessage(from, m)
		}
	}
}

var _ Sender = (*Server)(nil)
