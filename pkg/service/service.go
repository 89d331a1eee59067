package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/stitchworks/spindle/pkg/bridge"
	"github.com/stitchworks/spindle/pkg/device"
	"github.com/stitchworks/spindle/pkg/log"
)

type queued struct {
	ev  Event
	gen uint64
}

// Service owns the scripting runtime and is the only goroutine that
// touches it. Everything else talks to it through Post.
type Service struct {
	config Config
	logger *slog.Logger
	plog   log.Logger

	queue chan queued

	// generation advances on every reset request. Events stamped with
	// an older generation were queued for a runtime that no longer
	// exists and are dropped.
	generation atomic.Uint64
	wake       chan struct{}

	mu    sync.RWMutex
	state ServiceState

	// Loop goroutine only. rtGen is the generation rt was built for.
	rt        *bridge.Runtime
	rtGen     uint64
	announced map[device.Handle]bool

	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a service. Call Start to build the runtime and run the loop.
func New(config Config) (*Service, error) {
	if config.Registry == nil {
		return nil, fmt.Errorf("%w: registry is required", ErrInvalidConfig)
	}
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultQueueSize
	}
	if config.NewSessionID == nil {
		config.NewSessionID = uuid.NewString
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		config: config,
		logger: logger,
		plog:   log.OrNoop(config.ProtocolLogger),
		queue:  make(chan queued, config.QueueSize),
		wake:   make(chan struct{}, 1),
		state:  StateIdle,
	}, nil
}

// State returns the current state.
func (s *Service) State() ServiceState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Service) setState(next ServiceState, reason string) {
	s.mu.Lock()
	prev := s.state
	s.state = next
	s.mu.Unlock()

	if prev == next {
		return
	}
	s.logger.Debug("service state", "from", prev, "to", next, "reason", reason)
	s.plog.Log(log.Event{
		Timestamp: time.Now(),
		Layer:     log.LayerRuntime,
		Category:  log.CategoryState,
		StateChange: &log.StateChangeEvent{
			Entity:   log.StateEntityService,
			OldState: prev.String(),
			NewState: next.String(),
			Reason:   reason,
		},
	})
}

// Start builds the first runtime, runs the entry script, announces
// devices already attached and starts the loop.
func (s *Service) Start(ctx context.Context) error {
	if s.State() != StateIdle {
		return ErrAlreadyStarted
	}

	s.rtGen = s.generation.Load()
	rt, err := s.newRuntime()
	if err != nil {
		return err
	}
	s.rt = rt
	s.announced = make(map[device.Handle]bool)
	s.setState(StateRunning, "started")

	s.startup()

	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	go s.run(ctx)
	return nil
}

// Stop ends the loop and closes the runtime. Queued events are discarded.
func (s *Service) Stop() error {
	switch s.State() {
	case StateIdle:
		return ErrNotStarted
	case StateStopped:
		return nil
	}
	s.cancel()
	<-s.done

	s.closeRuntime("stopped")
	s.setState(StateStopped, "stopped")
	return nil
}

// Post queues ev for the loop. It never blocks; when the queue is full
// the event is dropped and ErrQueueFull returned.
func (s *Service) Post(ev Event) error {
	q := queued{ev: ev, gen: s.generation.Load()}
	select {
	case s.queue <- q:
		return nil
	default:
		s.logger.Warn("event queue full, dropping event", "event", ev.eventName())
		return ErrQueueFull
	}
}

// RequestReset asks for the runtime to be rebuilt once the current
// dispatch returns. Input events already queued are dropped. Safe to
// call from any goroutine.
func (s *Service) RequestReset() {
	gen := s.generation.Add(1)
	select {
	case s.wake <- struct{}{}:
	default:
	}
	s.logger.Info("runtime reset requested", "generation", gen)
}

// resetDue reports whether a reset was requested after the current
// runtime was built.
func (s *Service) resetDue() bool {
	return s.generation.Load() != s.rtGen
}

func (s *Service) run(ctx context.Context) {
	defer close(s.done)

	for {
		if s.resetDue() {
			s.reset()
		}
		select {
		case <-ctx.Done():
			return
		case <-s.wake:
		case q := <-s.queue:
			// The request may have landed while the loop was waiting.
			if s.resetDue() {
				s.reset()
			}
			s.handle(q)
		}
	}
}

func (s *Service) handle(q queued) {
	if s.rt == nil {
		s.logger.Warn("no runtime, dropping event", "event", q.ev.eventName())
		if rm, ok := q.ev.(DeviceRemoved); ok {
			s.detach(rm.Handle)
		}
		return
	}
	if q.gen != s.rtGen && !lifecycle(q.ev) {
		s.logger.Warn("dropping event queued before runtime reset", "event", q.ev.eventName())
		return
	}
	if err := s.dispatch(q.ev); err != nil {
		s.reportError(q.ev.eventName(), err)
	}
}

// lifecycle reports whether ev changes the device set. Those events
// survive a reset so the new runtime's view of attached devices matches
// the registry.
func lifecycle(ev Event) bool {
	switch ev.(type) {
	case DeviceAdded, DeviceRemoved:
		return true
	}
	return false
}

func (s *Service) dispatch(ev Event) error {
	switch e := ev.(type) {
	case DeviceAdded:
		if s.announced[e.Handle] {
			return nil
		}
		if _, err := s.config.Registry.Lookup(e.Handle); err != nil {
			s.logger.Debug("device gone before announce", "serial", e.Serial)
			return nil
		}
		s.announced[e.Handle] = true
		s.logDevice(log.DeviceEventAttach, e.Handle, e.Serial, e.Name)
		return s.rt.DeviceAdded(e.Handle, e.Serial, e.Name)

	case DeviceRemoved:
		announced := s.announced[e.Handle]
		if !s.detach(e.Handle) || !announced {
			return nil
		}
		s.logDevice(log.DeviceEventDetach, e.Handle, "", "")
		return s.rt.DeviceRemoved(e.Handle.ID)

	case GridKey:
		if !s.live(e.Handle) {
			return nil
		}
		s.logDevice(log.DeviceEventGridKey, e.Handle, "", "", e.X, e.Y, boolInt(e.Pressed))
		return s.rt.GridKey(e.Handle.ID, e.X, e.Y, e.Pressed)

	case GridTilt:
		if !s.live(e.Handle) {
			return nil
		}
		s.logDevice(log.DeviceEventTilt, e.Handle, "", "", e.Sensor, e.X, e.Y, e.Z)
		return s.rt.GridTilt(e.Handle.ID, e.Sensor, e.X, e.Y, e.Z)

	case ArcDelta:
		if !s.live(e.Handle) {
			return nil
		}
		s.logDevice(log.DeviceEventEncDelta, e.Handle, "", "", e.Ring, e.Delta)
		return s.rt.ArcDelta(e.Handle.ID, e.Ring, e.Delta)

	case ArcKey:
		if !s.live(e.Handle) {
			return nil
		}
		s.logDevice(log.DeviceEventEncKey, e.Handle, "", "", e.Ring, boolInt(e.Pressed))
		return s.rt.ArcKey(e.Handle.ID, e.Ring, e.Pressed)

	case OSCMessage:
		return s.rt.OSCEvent(e.From, e.Message)

	case ExecLine:
		return s.rt.ExecLine(e.Code)

	default:
		return fmt.Errorf("unhandled event %T", ev)
	}
}

// detach removes h from the registry. It reports whether h was live.
func (s *Service) detach(h device.Handle) bool {
	delete(s.announced, h)
	if err := s.config.Registry.Detach(h); err != nil {
		s.logger.Debug("detach of unknown device", "handle", h.String())
		return false
	}
	return true
}

func (s *Service) live(h device.Handle) bool {
	if _, err := s.config.Registry.Lookup(h); err != nil {
		s.logger.Debug("dropping input from detached device", "handle", h.String())
		return false
	}
	return true
}

// reset replaces the runtime and re-announces attached devices.
func (s *Service) reset() {
	s.rtGen = s.generation.Load()
	s.setState(StateTearingDown, "reset requested")
	s.closeRuntime("reset")

	rt, err := s.newRuntime()
	if err != nil {
		// Events are dropped until Stop.
		s.logger.Error("runtime rebuild failed", "error", err)
		s.reportError("reset", err)
		return
	}
	s.rt = rt
	s.announced = make(map[device.Handle]bool)
	s.setState(StateRunning, "reset complete")
	s.startup()
}

// startup runs the entry script then announces attached devices.
func (s *Service) startup() {
	if err := s.rt.Startup(s.config.Script); err != nil {
		s.reportError("_startup", err)
	}
	for _, h := range s.config.Registry.Handles() {
		d, err := s.config.Registry.Lookup(h)
		if err != nil {
			continue
		}
		s.announced[h] = true
		if err := s.rt.DeviceAdded(h, d.Serial(), d.Name()); err != nil {
			s.reportError("monome.add", err)
		}
	}
}

func (s *Service) newRuntime() (*bridge.Runtime, error) {
	session := s.config.NewSessionID()
	rt, err := bridge.NewRuntime(bridge.Config{
		Registry:       s.config.Registry,
		Sender:         s.config.Sender,
		LocalPort:      s.config.LocalPort,
		RemotePort:     s.config.RemotePort,
		ConfigPath:     s.config.LuaConfigPath,
		OnReset:        s.RequestReset,
		Stdout:         s.config.Stdout,
		SessionID:      session,
		Logger:         s.logger,
		ProtocolLogger: s.plog,
	})
	if err != nil {
		return nil, fmt.Errorf("create runtime: %w", err)
	}
	s.plog.Log(log.Event{
		Timestamp:   time.Now(),
		SessionID:   session,
		Layer:       log.LayerRuntime,
		Category:    log.CategoryState,
		StateChange: &log.StateChangeEvent{Entity: log.StateEntityRuntime, NewState: "RUNNING"},
	})
	return rt, nil
}

func (s *Service) closeRuntime(reason string) {
	if s.rt == nil {
		return
	}
	session := s.rt.SessionID()
	s.rt.Close()
	s.rt = nil
	s.plog.Log(log.Event{
		Timestamp:   time.Now(),
		SessionID:   session,
		Layer:       log.LayerRuntime,
		Category:    log.CategoryState,
		StateChange: &log.StateChangeEvent{Entity: log.StateEntityRuntime, OldState: "RUNNING", NewState: "CLOSED", Reason: reason},
	})
}

func (s *Service) sessionID() string {
	if s.rt == nil {
		return ""
	}
	return s.rt.SessionID()
}

func (s *Service) reportError(handler string, err error) {
	s.logger.Warn("script handler failed", "handler", handler, "error", err)
	s.plog.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: s.sessionID(),
		Layer:     log.LayerRuntime,
		Category:  log.CategoryError,
		Error: &log.ErrorEventData{
			Layer:   log.LayerRuntime,
			Message: err.Error(),
			Context: handler,
		},
	})
}

func (s *Service) logDevice(typ log.DeviceEventType, h device.Handle, serial, name string, values ...int) {
	s.plog.Log(log.Event{
		Timestamp:    time.Now(),
		SessionID:    s.sessionID(),
		Direction:    log.DirectionIn,
		Layer:        log.LayerDevice,
		Category:     log.CategoryDevice,
		DeviceSerial: serial,
		Device: &log.DeviceEvent{
			Type:     typ,
			DeviceID: h.ID,
			Name:     name,
			Values:   values,
		},
	})
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
